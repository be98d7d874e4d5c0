package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/summary/inmemory"
)

var _ = Describe("Store", func() {
	var (
		store *inmemory.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		store = inmemory.NewStore()
		ctx = context.Background()
	})

	It("returns an empty version-0 summary for a new conversation", func() {
		s, err := store.Get(ctx, "fresh")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Text).To(BeEmpty())
		Expect(s.Version).To(BeZero())
	})

	It("increments the version on every write", func() {
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

	It("keeps conversations independent", func() {
		_, err := store.Set(ctx, "a", "summary a")
		Expect(err).NotTo(HaveOccurred())

		s, err := store.Get(ctx, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Text).To(BeEmpty())
	})
})
