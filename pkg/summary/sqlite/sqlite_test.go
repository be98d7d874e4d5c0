package sqlite_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/summary/sqlite"
)

var _ = Describe("Store", func() {
	var (
		store *sqlite.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		store, err = sqlite.NewStore(":memory:")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("returns an empty version-0 summary for a new conversation", func() {
		s, err := store.Get(ctx, "fresh")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Text).To(BeEmpty())
		Expect(s.Version).To(BeZero())
	})

	It("upserts with last-write-wins and increments versions", func() {
		v1, err := store.Set(ctx, "conv", "first")
		Expect(err).NotTo(HaveOccurred())
		Expect(v1).To(Equal(int64(1)))

		v2, err := store.Set(ctx, "conv", "second")
		Expect(err).NotTo(HaveOccurred())
		Expect(v2).To(Equal(int64(2)))

		s, err := store.Get(ctx, "conv")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Text).To(Equal("second"))
		Expect(s.Version).To(Equal(int64(2)))
	})
})
