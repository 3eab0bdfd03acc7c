package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lexron-admin/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a category needs both name and slug", prop.ForAll(
		func(includeName bool, includeSlug bool) bool {
			body := map[string]interface{}{}
			if includeName {
				body["name"] = "Laptops"
			}
			if includeSlug {
				body["slug"] = "laptops"
			}

			reqBody, _ := json.Marshal(body)
			req := httptest.NewRequest("POST", "/rest/v1/categories", bytes.NewReader(reqBody))

			var category domain.Category
			err := DecodeAndValidate(req, &category)

			if includeName && includeSlug {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	err := ValidateRequest(&domain.Subcategory{Name: "Gaming"})
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}

	assert.Equal(t, "This field is required", fields["slug"])
	assert.Equal(t, "This field is required", fields["category_id"])
	assert.NotContains(t, fields, "name")
}

func TestProperty_ProfileStatusMustBeKnown(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("only active and suspended pass", prop.ForAll(
		func(status string) bool {
			err := ValidateRequest(&domain.Profile{
				FullName: "Ada Lovelace",
				Email:    "ada@example.com",
				Status:   domain.ProfileStatus(status),
			})

			if domain.ProfileStatus(status).Valid() {
				return err == nil
			}

			errs := FormatValidationErrors(err)
			return len(errs) == 1 && errs[0].Field == "status"
		},
		gen.OneConstOf("active", "suspended", "banned", "ACTIVE", ""),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StockMustNotBeNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative stock is rejected", prop.ForAll(
		func(stock int) bool {
			err := ValidateRequest(&domain.Product{Name: "ROG Strix G16", Stock: stock})
			if stock >= 0 {
				return err == nil
			}
			errs := FormatValidationErrors(err)
			return len(errs) == 1 && errs[0].Message == "Value must be greater than or equal to 0"
		},
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/rest/v1/brands", bytes.NewReader([]byte("{not json")))

	var brand domain.Brand
	err := DecodeAndValidate(req, &brand)

	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}
