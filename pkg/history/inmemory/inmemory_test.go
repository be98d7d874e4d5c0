package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/history/inmemory"
)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	It("returns an empty slice for an unknown conversation", func() {
		entries, err := driver.Scan(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("assigns monotonic sequence numbers per conversation", func() {
		Expect(driver.Append(ctx, "a", "q1", "r1")).To(Succeed())
		Expect(driver.Append(ctx, "a", "q2", "r2")).To(Succeed())
		Expect(driver.Append(ctx, "b", "q3", "r3")).To(Succeed())

		entries, err := driver.Scan(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Seq).To(Equal(int64(0)))
		Expect(entries[1].Seq).To(Equal(int64(1)))

		entries, err = driver.Scan(ctx, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Seq).To(Equal(int64(0)))
	})

	It("preserves insertion order", func() {
		for _, q := range []string{"first", "second", "third"} {
			Expect(driver.Append(ctx, "a", q, "ok")).To(Succeed())
		}

		entries, err := driver.Scan(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries[0].Query).To(Equal("first"))
		Expect(entries[1].Query).To(Equal("second"))
		Expect(entries[2].Query).To(Equal("third"))
	})

	It("returns a copy that callers cannot use to mutate the store", func() {
		Expect(driver.Append(ctx, "a", "q", "r")).To(Succeed())

		entries, err := driver.Scan(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		entries[0].Query = "mutated"

		again, err := driver.Scan(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(again[0].Query).To(Equal("q"))
	})
})
