package sqlite_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/history/sqlite"
)

var _ = Describe("Driver", func() {
	var (
		driver *sqlite.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		driver, err = sqlite.NewDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("returns an empty slice for an unknown conversation", func() {
		entries, err := driver.Scan(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("appends and scans entries in insertion order", func() {
		Expect(driver.Append(ctx, "conv", "what is the PX-9", "a pressure sensor")).To(Succeed())
		Expect(driver.Append(ctx, "conv", "how much", "contact sales")).To(Succeed())

		entries, err := driver.Scan(ctx, "conv")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Seq).To(Equal(int64(0)))
		Expect(entries[0].Query).To(Equal("what is the PX-9"))
		Expect(entries[1].Seq).To(Equal(int64(1)))
		Expect(entries[1].Response).To(Equal("contact sales"))
	})

	It("keeps sequences independent across conversations", func() {
		Expect(driver.Append(ctx, "a", "q", "r")).To(Succeed())
		Expect(driver.Append(ctx, "b", "q", "r")).To(Succeed())
		Expect(driver.Append(ctx, "b", "q2", "r2")).To(Succeed())

		aEntries, err := driver.Scan(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(aEntries).To(HaveLen(1))
		Expect(aEntries[0].Seq).To(Equal(int64(0)))

		bEntries, err := driver.Scan(ctx, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(bEntries).To(HaveLen(2))
		Expect(bEntries[1].Seq).To(Equal(int64(1)))
	})
})
