package entities

import (
	"maps"
	"slices"
)

// Credentials is an email/password pair
type Credentials struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// NewUser holds registration data
type NewUser struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Password  string `json:"password" yaml:"password"`
}

// FullName joins first and last name.
func (u NewUser) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Address is a billing or shipping address
type Address struct {
	FirstName   string `json:"firstName" yaml:"firstName"`
	LastName    string `json:"lastName" yaml:"lastName"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Country     string `json:"country" yaml:"country"`
	State       string `json:"state,omitempty" yaml:"state,omitempty"`
	City        string `json:"city" yaml:"city"`
	Address1    string `json:"address1" yaml:"address1"`
	Address2    string `json:"address2,omitempty" yaml:"address2,omitempty"`
	ZipCode     string `json:"zipCode" yaml:"zipCode"`
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`
}

// SearchTerms groups search inputs by expected behaviour
type SearchTerms struct {
	Valid   []string `json:"valid" yaml:"valid"`
	Invalid []string `json:"invalid" yaml:"invalid"`
	Empty   string   `json:"empty" yaml:"empty"`
	Special []string `json:"special" yaml:"special"`
	Numeric []string `json:"numeric" yaml:"numeric"`
}

// ContactForm holds enquiry data
type ContactForm struct {
	FullName string `json:"fullName" yaml:"fullName"`
	Email    string `json:"email" yaml:"email"`
	Subject  string `json:"subject" yaml:"subject"`
	Enquiry  string `json:"enquiry" yaml:"enquiry"`
}

// ValidInvalid is a pair of accepted and rejected inputs
type ValidInvalid struct {
	Valid   []string `json:"valid" yaml:"valid"`
	Invalid []string `json:"invalid" yaml:"invalid"`
}

// Quantities used by cart scenarios
type Quantities struct {
	Single   int `json:"single" yaml:"single"`
	Multiple int `json:"multiple" yaml:"multiple"`
	Large    int `json:"large" yaml:"large"`
	Maximum  int `json:"maximum" yaml:"maximum"`
}

// DisplayOptions used by category scenarios
type DisplayOptions struct {
	PerPage  []string `json:"perPage" yaml:"perPage"`
	ViewMode []string `json:"viewMode" yaml:"viewMode"`
}

// SecurityInputs are hostile strings fed into forms
type SecurityInputs struct {
	SQLInjection []string `json:"sqlInjection" yaml:"sqlInjection"`
	XSS          []string `json:"xss" yaml:"xss"`
	LongStrings  []string `json:"longStrings" yaml:"longStrings"`
}

// Fixtures is the literal test data consumed by scenarios.
// It is passed to scenarios explicitly and treated as read-only.
type Fixtures struct {
	ValidUser       Credentials            `json:"validUser" yaml:"validUser"`
	InvalidUser     Credentials            `json:"invalidUser" yaml:"invalidUser"`
	NewUser         NewUser                `json:"newUser" yaml:"newUser"`
	SearchTerms     SearchTerms            `json:"searchTerms" yaml:"searchTerms"`
	Products        map[string]string      `json:"products" yaml:"products"`
	Categories      []string               `json:"categories" yaml:"categories"`
	BillingAddress  Address                `json:"billingAddress" yaml:"billingAddress"`
	ShippingAddress Address                `json:"shippingAddress" yaml:"shippingAddress"`
	ContactForm     ContactForm            `json:"contactForm" yaml:"contactForm"`
	Newsletter      ValidInvalid           `json:"newsletter" yaml:"newsletter"`
	PaymentMethods  map[string]string      `json:"paymentMethods" yaml:"paymentMethods"`
	ShippingMethods map[string]string      `json:"shippingMethods" yaml:"shippingMethods"`
	DiscountCodes   ValidInvalid           `json:"discountCodes" yaml:"discountCodes"`
	GiftCardCodes   ValidInvalid           `json:"giftCardCodes" yaml:"giftCardCodes"`
	UserProfiles    map[string]Credentials `json:"userProfiles" yaml:"userProfiles"`
	Quantities      Quantities             `json:"productQuantities" yaml:"productQuantities"`
	SortOptions     map[string]string      `json:"sortOptions" yaml:"sortOptions"`
	DisplayOptions  DisplayOptions         `json:"displayOptions" yaml:"displayOptions"`
	Security        SecurityInputs         `json:"securityTestData" yaml:"securityTestData"`
}

// Product returns the search term for a product key, falling back to the key.
func (f Fixtures) Product(key string) string {
	if v, ok := f.Products[key]; ok {
		return v
	}
	return key
}

// Clone returns a deep copy so parallel scenarios never share slices or maps.
func (f Fixtures) Clone() Fixtures {
	c := f
	c.SearchTerms.Valid = slices.Clone(f.SearchTerms.Valid)
	c.SearchTerms.Invalid = slices.Clone(f.SearchTerms.Invalid)
	c.SearchTerms.Special = slices.Clone(f.SearchTerms.Special)
	c.SearchTerms.Numeric = slices.Clone(f.SearchTerms.Numeric)
	c.Products = maps.Clone(f.Products)
	c.Categories = slices.Clone(f.Categories)
	c.Newsletter = f.Newsletter.clone()
	c.PaymentMethods = maps.Clone(f.PaymentMethods)
	c.ShippingMethods = maps.Clone(f.ShippingMethods)
	c.DiscountCodes = f.DiscountCodes.clone()
	c.GiftCardCodes = f.GiftCardCodes.clone()
	c.UserProfiles = maps.Clone(f.UserProfiles)
	c.SortOptions = maps.Clone(f.SortOptions)
	c.DisplayOptions.PerPage = slices.Clone(f.DisplayOptions.PerPage)
	c.DisplayOptions.ViewMode = slices.Clone(f.DisplayOptions.ViewMode)
	c.Security.SQLInjection = slices.Clone(f.Security.SQLInjection)
	c.Security.XSS = slices.Clone(f.Security.XSS)
	c.Security.LongStrings = slices.Clone(f.Security.LongStrings)
	return c
}

func (v ValidInvalid) clone() ValidInvalid {
	return ValidInvalid{Valid: slices.Clone(v.Valid), Invalid: slices.Clone(v.Invalid)}
}
