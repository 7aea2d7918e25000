package validation_test

import (
	"testing"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/common/validation"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "Rent").Required().MaxLength(100)
		v.Field("amount", decimal.NewFromInt(10)).Amount(errors.ErrCodeInvalidAmount)
		v.Field("due_date", datex.New(2024, 3, 1)).Required()
		v.Field("recurring_type", "weekly").OneOf(errors.ErrCodeInvalidRecurrence, "weekly", "monthly")
		Expect(v.Validate()).To(BeNil())
	})

	It("collects one entry per failing field", func() {
		v := validation.NewValidator()
		v.Field("name", "   ").Required()
		v.Field("amount", decimal.Zero).Amount(errors.ErrCodeInvalidAmount)
		v.Field("due_date", datex.Date{}).Required()
		v.Field("recurring_type", "daily").OneOf(errors.ErrCodeInvalidRecurrence, "weekly", "monthly")

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.StatusCode).To(Equal(400))
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(4))
		Expect(details.Errors[1].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))
		Expect(details.Errors[2].Code).To(Equal(string(errors.ErrCodeInvalidDate)))
		Expect(details.Errors[3].Message).To(Equal("recurring_type must be one of: weekly, monthly"))
	})

	DescribeTable("amount rules",
		func(amount, message string) {
			v := validation.NewValidator()
			v.Field("amount", decimal.RequireFromString(amount)).Amount(errors.ErrCodeInvalidAmount)
			appErr := v.Validate()
			if message == "" {
				Expect(appErr).To(BeNil())
				return
			}
			Expect(appErr).NotTo(BeNil())
			details := appErr.Details.(errors.ValidationErrors)
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Message).To(Equal(message))
			Expect(details.Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))
		},
		Entry("two places", "19.99", ""),
		Entry("largest storable", "9999999999.99", ""),
		Entry("negative", "-0.01", "amount must be positive"),
		Entry("sub-cent", "0.001", "amount must have at most 2 decimal places"),
		Entry("too large", "10000000000", "amount must be less than 10000000000"),
	)
})
