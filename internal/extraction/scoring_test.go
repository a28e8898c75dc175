package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scoring", func() {
	var s Scoring

	BeforeEach(func() {
		s = DefaultScoring()
	})

	It("scores an empty result as zero", func() {
		Expect(s.score(map[string]*Field{}, nil)).To(Equal(0.0))
	})

	It("weights total, date and identity", func() {
		fields := map[string]*Field{
			FieldTotalIncludingVAT: newField(1180.0, 1.0, "keyword_total"),
			FieldDate:              newField("05.01.2026", 1.0, "pattern_date_dd.mm.yyyy"),
			FieldVKN:               newField("1234567890", 1.0, "keyword_vkn"),
		}
		Expect(s.score(fields, nil)).To(Equal(1.0))
	})

	It("does not score a TCKN as the identity", func() {
		fields := map[string]*Field{
			FieldTCKN: newField("12345678901", 0.70, "keyword_tckn"),
		}
		Expect(s.score(fields, nil)).To(Equal(0.0))
	})

	It("scores the VKN alongside a TCKN", func() {
		fields := map[string]*Field{
			FieldVKN:  newField("1234567890", 0.95, "keyword_vkn"),
			FieldTCKN: newField("12345678901", 0.70, "keyword_tckn"),
		}
		Expect(s.score(fields, nil)).To(BeNumerically("~", 0.2375, 0.006))
	})

	It("subtracts a penalty per warning severity", func() {
		fields := map[string]*Field{
			FieldTotalIncludingVAT: newField(1180.0, 1.0, "keyword_total"),
			FieldDate:              newField("05.01.2026", 1.0, "pattern_date_dd.mm.yyyy"),
			FieldVKN:               newField("1234567890", 1.0, "keyword_vkn"),
		}
		ws := []Warning{
			{Code: WarnAmountsInconsistent, Severity: SeverityHigh},
			{Code: WarnDocTypeUnknown, Severity: SeverityMedium},
			{Code: "custom", Severity: SeverityLow},
		}
		Expect(s.score(fields, ws)).To(BeNumerically("~", 0.65, 0.001))
	})

	It("never goes below zero", func() {
		ws := []Warning{
			{Severity: SeverityHigh}, {Severity: SeverityHigh}, {Severity: SeverityHigh},
		}
		fields := map[string]*Field{
			FieldDate: newField("05.01.2026", 0.75, "pattern_date_dd.mm.yyyy"),
		}
		Expect(s.score(fields, ws)).To(Equal(0.0))
	})

	It("ignores unknown severities", func() {
		Expect(s.penalty(Severity("critical"))).To(Equal(0.0))
	})

	When("custom weights are configured", func() {
		It("applies them", func() {
			e := NewExtractorWithScoring(Scoring{IdentityWeight: 1})
			r := e.Extract("VKN: 1234567890", "")
			Expect(r.OverallConfidence).To(Equal(0.95))
			Expect(r.HasWarning(WarnOverallConfidenceLow)).To(BeFalse())
		})
	})
})
