// Package fixtures provides the literal test data handed to scenarios, either
// the built-in set or a YAML file layered over it.
package fixtures

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"storefront_e2e/domain/entities"
)

// Defaults returns the built-in test data. The new user's email is stamped
// with the current time so registrations do not collide across runs.
func Defaults() entities.Fixtures {
	return entities.Fixtures{
		ValidUser:   entities.Credentials{Email: "testuser@example.com", Password: "TestPassword123!"},
		InvalidUser: entities.Credentials{Email: "invalid@example.com", Password: "wrongpassword"},
		NewUser: entities.NewUser{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "test" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "@example.com",
			Password:  "TestPassword123!",
		},
		SearchTerms: entities.SearchTerms{
			Valid:   []string{"laptop", "phone", "computer", "book", "jewelry", "camera"},
			Invalid: []string{"xyz123nonexistent", "invalidproduct999", "notfound123"},
			Special: []string{"laptop-computer", "phone & accessories", "book: title"},
			Numeric: []string{"123", "2023", "model 5"},
		},
		Products: map[string]string{
			"laptop":   "laptop",
			"phone":    "phone",
			"camera":   "camera",
			"book":     "book",
			"jewelry":  "jewelry",
			"giftCard": "gift card",
		},
		Categories: []string{"Computers", "Electronics", "Apparel", "Digital downloads", "Books", "Jewelry", "Gift Cards"},
		BillingAddress: entities.Address{
			FirstName:   "John",
			LastName:    "Doe",
			Email:       "john.doe@example.com",
			Country:     "United States",
			State:       "New York",
			City:        "New York",
			Address1:    "123 Main Street",
			Address2:    "Apt 4B",
			ZipCode:     "10001",
			PhoneNumber: "555-123-4567",
		},
		ShippingAddress: entities.Address{
			FirstName:   "Jane",
			LastName:    "Smith",
			Country:     "United States",
			State:       "California",
			City:        "Los Angeles",
			Address1:    "456 Oak Avenue",
			Address2:    "Suite 200",
			ZipCode:     "90210",
			PhoneNumber: "555-987-6543",
		},
		ContactForm: entities.ContactForm{
			FullName: "Test User",
			Email:    "testuser@example.com",
			Subject:  "Test Subject",
			Enquiry:  "This is a test enquiry message for automated testing purposes.",
		},
		Newsletter: entities.ValidInvalid{
			Valid:   []string{"test@example.com", "user@test.com"},
			Invalid: []string{"invalid-email", "test@", "@example.com"},
		},
		PaymentMethods: map[string]string{
			"creditCard":    "Credit Card",
			"paypal":        "PayPal",
			"checkMoney":    "Check / Money Order",
			"purchaseOrder": "Purchase Order",
		},
		ShippingMethods: map[string]string{
			"ground":       "Ground",
			"nextDayAir":   "Next Day Air",
			"secondDayAir": "2nd Day Air",
		},
		DiscountCodes: entities.ValidInvalid{
			Valid:   []string{"SAVE10", "DISCOUNT20"},
			Invalid: []string{"INVALID123", "EXPIRED456"},
		},
		GiftCardCodes: entities.ValidInvalid{
			Valid:   []string{"GIFT100", "GIFT200"},
			Invalid: []string{"INVALID123", "EXPIRED456"},
		},
		UserProfiles: map[string]entities.Credentials{
			"admin":    {Email: "admin@example.com", Password: "AdminPassword123!"},
			"customer": {Email: "customer@example.com", Password: "CustomerPassword123!"},
		},
		Quantities: entities.Quantities{Single: 1, Multiple: 3, Large: 10, Maximum: 999},
		SortOptions: map[string]string{
			"nameAsc":     "5",
			"nameDesc":    "6",
			"priceAsc":    "10",
			"priceDesc":   "11",
			"createdAsc":  "0",
			"createdDesc": "1",
		},
		DisplayOptions: entities.DisplayOptions{
			PerPage:  []string{"3", "6", "9"},
			ViewMode: []string{"grid", "list"},
		},
		Security: entities.SecurityInputs{
			SQLInjection: []string{"' OR '1'='1", "'; DROP TABLE users; --"},
			XSS:          []string{`<script>alert("xss")</script>`, "<img src=x onerror=alert(1)>"},
			LongStrings:  []string{strings.Repeat("a", 1000), strings.Repeat("test", 250)},
		},
	}
}

// Static serves one fixed data set. Every call returns a fresh copy.
type Static struct {
	data entities.Fixtures
}

func NewStatic(data entities.Fixtures) *Static {
	return &Static{data: data.Clone()}
}

func (s *Static) Fixtures() entities.Fixtures {
	return s.data.Clone()
}

// Load reads a YAML fixtures file. Keys present in the file replace the
// defaults; everything else keeps its built-in value.
func Load(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Static{data: data}, nil
}

// Parse decodes YAML over Defaults
func Parse(raw []byte) (entities.Fixtures, error) {
	data := Defaults()
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return entities.Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return data, nil
}

// Lookup resolves a dotted path such as "validUser.email" or
// "searchTerms.valid.0" to its scalar value. Keys are the YAML names.
func Lookup(f entities.Fixtures, path string) (string, error) {
	raw, err := yaml.Marshal(f)
	if err != nil {
		return "", err
	}
	var node any
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return "", err
	}

	for _, key := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[key]
			if !ok {
				return "", fmt.Errorf("fixture %q: no key %q", path, key)
			}
			node = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(n) {
				return "", fmt.Errorf("fixture %q: bad index %q", path, key)
			}
			node = n[i]
		default:
			return "", fmt.Errorf("fixture %q: %q is not a map or list", path, key)
		}
	}

	switch node.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("fixture %q is not a scalar", path)
	case nil:
		return "", nil
	}
	return fmt.Sprint(node), nil
}
