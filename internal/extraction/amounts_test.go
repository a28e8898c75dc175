package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Amount extraction", func() {
	var (
		text   string
		fields map[string]*Field
		w      *warnings
	)

	BeforeEach(func() {
		fields = make(map[string]*Field)
		w = &warnings{}
	})

	JustBeforeEach(func() {
		extractTotal(text, AmountCandidates(text), fields, w)
		extractSubtotal(text, fields)
		extractVAT(text, fields)
	})

	When("the total carries the VAT-included label", func() {
		BeforeEach(func() {
			text = "KDV DAHİL TOPLAM TUTAR 1.180,00 TL"
		})

		It("uses the primary total strategy", func() {
			Expect(fields[FieldTotalIncludingVAT].Value).To(Equal(1180.0))
			Expect(fields[FieldTotalIncludingVAT].Source).To(Equal("keyword_total"))
			Expect(fields[FieldTotalIncludingVAT].Confidence).To(Equal(0.90))
			Expect(w.items).To(BeEmpty())
		})

		It("does not read the label as a VAT amount", func() {
			Expect(fields).NotTo(HaveKey(FieldVATAmount))
		})
	})

	When("a tax total sits on the same line as the grand total", func() {
		BeforeEach(func() {
			text = "KDV TOPLAM 180,00 TOPLAM 1.180,00 TL"
		})

		It("reads the grand total after the skipped label", func() {
			Expect(fields[FieldTotalIncludingVAT].Value).To(Equal(1180.0))
			Expect(fields[FieldTotalIncludingVAT].Source).To(Equal("keyword_grand_total"))
			Expect(fields[FieldTotalIncludingVAT].Confidence).To(Equal(0.90))
			Expect(w.items).To(BeEmpty())
		})
	})

	When("a receipt lists subtotal, VAT and total", func() {
		BeforeEach(func() {
			text = "ARA TOPLAM 100,00 TL\nKDV 18,00 TL\nTOPLAM 118,00 TL"
		})

		It("skips the subtotal when reading the grand total", func() {
			Expect(fields[FieldTotalIncludingVAT].Value).To(Equal(118.0))
			Expect(fields[FieldTotalIncludingVAT].Source).To(Equal("keyword_grand_total"))
		})

		It("reads the subtotal", func() {
			Expect(fields[FieldTotalExcludingVAT].Value).To(Equal(100.0))
			Expect(fields[FieldTotalExcludingVAT].Source).To(Equal("keyword_subtotal"))
			Expect(fields[FieldTotalExcludingVAT].Confidence).To(Equal(0.85))
		})

		It("reads the VAT amount", func() {
			Expect(fields[FieldVATAmount].Value).To(Equal(18.0))
			Expect(fields[FieldVATAmount].Source).To(Equal("keyword_vat"))
			Expect(fields[FieldVATAmount].Confidence).To(Equal(0.80))
		})
	})

	When("the subtotal uses the e-invoice label", func() {
		BeforeEach(func() {
			text = "Mal Hizmet Toplam Tutarı 1.000,00 TL"
		})

		It("reads it", func() {
			Expect(fields[FieldTotalExcludingVAT].Value).To(Equal(1000.0))
		})
	})

	When("VAT is printed with its rate", func() {
		BeforeEach(func() {
			text = "Hesaplanan KDV (%18) 180,00 TL"
		})

		It("uses the rate strategy", func() {
			Expect(fields[FieldVATAmount].Value).To(Equal(180.0))
			Expect(fields[FieldVATAmount].Source).To(Equal("keyword_vat_rate"))
		})
	})

	When("VAT digits lost their separator", func() {
		BeforeEach(func() {
			text = "TOPLAM 7.050,00 TL\nHesaplanan KDV 11500071"
		})

		It("recovers the amount", func() {
			Expect(fields[FieldVATAmount].Value).To(BeNumerically("~", 1150.00, 1e-9))
			Expect(fields[FieldVATAmount].Source).To(Equal("keyword_vat_recovered"))
		})
	})

	When("no total label is present", func() {
		BeforeEach(func() {
			text = "KASİYER: AYŞE\nÜRÜN A 12,50\nÜRÜN B 45,00\nNAKİT 57,00"
		})

		It("selects the largest candidate", func() {
			Expect(fields[FieldTotalIncludingVAT].Value).To(Equal(57.0))
			Expect(fields[FieldTotalIncludingVAT].Source).To(Equal("heuristic_max_amount"))
			Expect(fields[FieldTotalIncludingVAT].Confidence).To(Equal(0.55))
		})

		It("explains the choice", func() {
			Expect(w.items).To(HaveLen(1))

			warn := w.items[0]
			Expect(warn.Code).To(Equal(WarnTotalFallbackMax))
			Expect(warn.Severity).To(Equal(SeverityMedium))
			Expect(warn.Meta).To(HaveKeyWithValue("selected_total", 57.0))
			Expect(warn.Meta).To(HaveKeyWithValue("amount_candidates", []float64{12.5, 45, 57}))
			Expect(warn.Meta).To(HaveKeyWithValue("evidence_lines", []string{"NAKİT 57,00"}))
		})
	})

	When("there are no amounts at all", func() {
		BeforeEach(func() {
			text = "Teşekkür ederiz"
		})

		It("raises total_not_found", func() {
			Expect(fields).NotTo(HaveKey(FieldTotalIncludingVAT))
			Expect(w.items).To(HaveLen(1))
			Expect(w.items[0].Code).To(Equal(WarnTotalNotFound))
			Expect(w.items[0].Severity).To(Equal(SeverityHigh))
			Expect(w.items[0].Meta).To(BeNil())
		})
	})
})

var _ = Describe("groupThousands", func() {
	DescribeTable("formatting",
		func(n int64, want string) {
			Expect(groupThousands(n)).To(Equal(want))
		},
		Entry("small", int64(57), "57"),
		Entry("thousands", int64(1180), "1.180"),
		Entry("millions", int64(1234567), "1.234.567"),
		Entry("negative", int64(-1180), "-1.180"),
	)
})
