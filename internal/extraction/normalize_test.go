package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	DescribeTable("collapsing whitespace",
		func(in, want string) {
			Expect(Normalize(in)).To(Equal(want))
		},
		Entry("unifies CRLF and CR", "a\r\nb\rc", "a\nb\nc"),
		Entry("collapses spaces and tabs", "a  \t b", "a b"),
		Entry("drops blank lines", "a\n\n\nb", "a\nb"),
		Entry("drops whitespace-only lines", "a\n   \n\t\nb", "a\nb"),
		Entry("trims the ends", "  a  \n b  ", "a\nb"),
		Entry("keeps empty input empty", "", ""),
		Entry("keeps non-whitespace intact", "KDV %18: 1.180,00 TL", "KDV %18: 1.180,00 TL"),
	)

	It("is idempotent", func() {
		samples := []string{
			"",
			"   ",
			"\r\r\n \t\n x   y\f\n\n",
			"a\n \n \nb",
			"  x\n \n y \r\n",
			"TOPLAM\t\t 1.180,00 TL\r\n\r\n\r\nTarih: 05.01.2026   ",
		}
		for _, s := range samples {
			once := Normalize(s)
			Expect(Normalize(once)).To(Equal(once), "input %q", s)
		}
	})
})
