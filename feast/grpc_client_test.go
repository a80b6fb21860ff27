package feast

import (
	"testing"

	feastsdk "github.com/feast-dev/feast/sdk/go"
)

func TestDecodeDishRow(t *testing.T) {
	row := feastsdk.Row{
		FeatureIngredients:    feastsdk.StrVal(`["tofu","scallion"]`),
		FeatureFlavorProfiles: feastsdk.StrVal(`["savory","umami"]`),
		FeatureCookingMethods: feastsdk.StrVal(`["braised"]`),
		FeatureCuisineType:    feastsdk.StrVal("chinese"),
		FeatureDietaryAttrs:   feastsdk.StrVal(`["vegan"]`),
		FeatureDishType:       feastsdk.StrVal("main"),
		FeatureEmbedding:      feastsdk.StrVal(`[0.1,0.2]`),
	}

	features, ok := decodeDishRow(row)
	if !ok {
		t.Fatal("expected row to decode")
	}
	if len(features.Attributes.FlavorProfiles) != 2 || features.Attributes.FlavorProfiles[0] != "savory" {
		t.Errorf("unexpected flavors: %v", features.Attributes.FlavorProfiles)
	}
	if features.Attributes.CuisineType != "chinese" {
		t.Errorf("cuisine = %q", features.Attributes.CuisineType)
	}
	if len(features.Embedding) != 2 || features.Embedding[1] != 0.2 {
		t.Errorf("unexpected embedding: %v", features.Embedding)
	}
}

func TestDecodeDishRowMiss(t *testing.T) {
	// 没有 flavor_profiles 列视为未命中
	row := feastsdk.Row{
		FeatureCuisineType: feastsdk.StrVal("thai"),
	}
	if _, ok := decodeDishRow(row); ok {
		t.Error("row without flavor profiles should be a miss")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		wantHost string
		wantPort int
	}{
		{"localhost:6565", "localhost", 6565},
		{"grpc://feast.internal:6565", "feast.internal", 6565},
		{"feast.internal", "feast.internal", 0},
	}
	for _, tt := range tests {
		host, port := parseEndpoint(tt.endpoint)
		if host != tt.wantHost || port != tt.wantPort {
			t.Errorf("parseEndpoint(%q) = %q, %d; want %q, %d", tt.endpoint, host, port, tt.wantHost, tt.wantPort)
		}
	}
}
