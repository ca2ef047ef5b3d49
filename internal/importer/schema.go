package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level YAML structure of a catalog file.
type CatalogSchema struct {
	Operator *OperatorImport `yaml:"operator,omitempty"`
	Packages []PackageImport `yaml:"packages"`
	Leads    []LeadImport    `yaml:"leads"`
}

// OperatorImport names the operator the packages are published under.
// The importing user's id is used when it is absent.
type OperatorImport struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// PackageImport defines one package. Prices are strings so decimal amounts
// survive YAML's float parsing.
type PackageImport struct {
	Ref                 string          `yaml:"ref"`
	Title               string          `yaml:"title"`
	Description         string          `yaml:"description,omitempty"`
	Type                string          `yaml:"type"`
	AdultPrice          string          `yaml:"adult_price"`
	ChildPrice          string          `yaml:"child_price,omitempty"`
	Currency            string          `yaml:"currency,omitempty"`
	Duration            *DurationImport `yaml:"duration,omitempty"`
	Destinations        []string        `yaml:"destinations"`
	Rating              *float64        `yaml:"rating,omitempty"`
	ReviewCount         *int            `yaml:"review_count,omitempty"`
	RecommendationScore *float64        `yaml:"recommendation_score,omitempty"`
}

type DurationImport struct {
	Days  int `yaml:"days"`
	Hours int `yaml:"hours"`
}

// LeadImport defines one marketplace lead.
type LeadImport struct {
	Ref           string  `yaml:"ref"`
	CustomerName  string  `yaml:"customer_name"`
	CustomerEmail string  `yaml:"customer_email,omitempty"`
	Destination   string  `yaml:"destination"`
	Budget        string  `yaml:"budget"`
	TripType      string  `yaml:"trip_type,omitempty"`
	Adults        *int    `yaml:"adults,omitempty"`
	Children      int     `yaml:"children,omitempty"`
	StartDate     *string `yaml:"start_date,omitempty"`
	EndDate       *string `yaml:"end_date,omitempty"`
	DurationDays  int     `yaml:"duration_days,omitempty"`
	Preferences   string  `yaml:"preferences,omitempty"`
	Requirements  string  `yaml:"requirements,omitempty"`
	Price         string  `yaml:"price,omitempty"`
}

// LoadCatalog reads and parses a catalog YAML file.
func LoadCatalog(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML, rejecting unknown keys.
func ParseCatalog(data []byte) (*CatalogSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schema CatalogSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
