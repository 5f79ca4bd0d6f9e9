package entity

import "testing"

func TestModelSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ModelSpec
		wantErr bool
	}{
		{
			name: "valid spec",
			spec: ModelSpec{
				ID:                  "bart",
				MaxInputTokens:      1024,
				Tier:                TierBalanced,
				PreferredCategories: []Category{CategoryNews, CategoryGeneric},
				Provider:            ProviderOpenAICompat,
			},
			wantErr: false,
		},
		{
			name:    "empty id",
			spec:    ModelSpec{MaxInputTokens: 512, Tier: TierFast},
			wantErr: true,
		},
		{
			name:    "non-positive budget",
			spec:    ModelSpec{ID: "t5", MaxInputTokens: 0, Tier: TierFast},
			wantErr: true,
		},
		{
			name:    "unknown tier",
			spec:    ModelSpec{ID: "x", MaxInputTokens: 100, Tier: "TURBO"},
			wantErr: true,
		},
		{
			name: "unknown category",
			spec: ModelSpec{
				ID: "x", MaxInputTokens: 100, Tier: TierFast,
				PreferredCategories: []Category{"POETRY"},
			},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			spec:    ModelSpec{ID: "x", MaxInputTokens: 100, Tier: TierFast, Provider: "grpc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelSpec_PrefersCategory(t *testing.T) {
	spec := ModelSpec{PreferredCategories: []Category{CategoryResearchPaper}}

	if !spec.PrefersCategory(CategoryResearchPaper) {
		t.Error("expected spec to prefer RESEARCH_PAPER")
	}
	if spec.PrefersCategory(CategoryNews) {
		t.Error("did not expect spec to prefer NEWS")
	}
}

func TestTier_Ordering(t *testing.T) {
	if !(TierFast.LatencyCost() < TierBalanced.LatencyCost() &&
		TierBalanced.LatencyCost() < TierHighQuality.LatencyCost()) {
		t.Error("latency cost must increase from FAST to HIGH_QUALITY")
	}
	if !(TierFast.QualityRank() < TierBalanced.QualityRank() &&
		TierBalanced.QualityRank() < TierHighQuality.QualityRank()) {
		t.Error("quality rank must increase from FAST to HIGH_QUALITY")
	}
}
