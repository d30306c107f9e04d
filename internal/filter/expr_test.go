package filter

import (
	"testing"

	"academyscope/internal/model"
)

func TestMatch(t *testing.T) {
	row := map[string]any{
		"UniversiteAdi":    "ANKARA ÜNİVERSİTESİ",
		"ProgramAdi":       "Tıp",
		"UlkeKodu":         int64(1),
		"Lisans":           int64(1),
		"KKTCUyruklu":      int64(0),
		"MTOK":             false,
		"GenelKontenjan":   int64(300),
		"GenelEnKucukPuan": 520.5,
		"Kadin34Kontenjan": nil,
		"UcretDurumu":      int64(0),
	}

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{name: "contains", expr: &Comparison{Field: "UniversiteAdi", Op: OpContains, Value: "ANKARA"}, want: true},
		{name: "contains miss", expr: &Comparison{Field: "UniversiteAdi", Op: OpContains, Value: "EGE"}, want: false},
		{name: "int equals", expr: &Comparison{Field: "UlkeKodu", Op: OpEq, Value: 1}, want: true},
		{name: "bool against stored int", expr: &Comparison{Field: "Lisans", Op: OpEq, Value: true}, want: true},
		{name: "false flag", expr: &Comparison{Field: "KKTCUyruklu", Op: OpEq, Value: false}, want: true},
		{name: "bool against bool", expr: &Comparison{Field: "MTOK", Op: OpEq, Value: false}, want: true},
		{name: "greater than", expr: &Comparison{Field: "GenelEnKucukPuan", Op: OpGt, Value: 500.0}, want: true},
		{name: "less than", expr: &Comparison{Field: "GenelEnKucukPuan", Op: OpLt, Value: 500.0}, want: false},
		{name: "not null", expr: &Comparison{Field: "GenelKontenjan", Op: OpIsNotNull}, want: true},
		{name: "null", expr: &Comparison{Field: "Kadin34Kontenjan", Op: OpIsNotNull}, want: false},
		{name: "missing field", expr: &Comparison{Field: "SehitGaziKontenjan", Op: OpIsNotNull}, want: false},
		{name: "comparison with null is false", expr: &Comparison{Field: "Kadin34Kontenjan", Op: OpLt, Value: 1.0}, want: false},
		{
			name: "or",
			expr: &Or{Terms: []Expr{
				&Comparison{Field: "Kadin34Kontenjan", Op: OpIsNotNull},
				&Comparison{Field: "GenelKontenjan", Op: OpIsNotNull},
			}},
			want: true,
		},
		{name: "empty or", expr: &Or{}, want: false},
		{name: "empty and", expr: &And{}, want: true},
		{
			name: "and",
			expr: &And{Terms: []Expr{
				&Comparison{Field: "ProgramAdi", Op: OpContains, Value: "Tıp"},
				&Comparison{Field: "UcretDurumu", Op: OpEq, Value: 2},
			}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.expr, row); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchBuiltSelection(t *testing.T) {
	rows := []map[string]any{
		{"UniversiteAdi": "EGE ÜNİVERSİTESİ", "KKTCUyruklu": int64(0), "MTOK": int64(0), "GenelKontenjan": int64(10), "GenelEnKucukPuan": 410.0, "UcretDurumu": int64(0)},
		{"UniversiteAdi": "EGE ÜNİVERSİTESİ", "KKTCUyruklu": int64(1), "MTOK": int64(0), "GenelKontenjan": int64(2), "GenelEnKucukPuan": 390.0, "UcretDurumu": int64(0)},
		{"UniversiteAdi": "EGE ÜNİVERSİTESİ", "KKTCUyruklu": int64(0), "MTOK": int64(0), "GenelKontenjan": nil, "UcretDurumu": int64(0)},
		{"UniversiteAdi": "ANKARA ÜNİVERSİTESİ", "KKTCUyruklu": int64(0), "MTOK": int64(0), "GenelKontenjan": int64(40), "GenelEnKucukPuan": 450.0, "UcretDurumu": int64(0)},
		{"UniversiteAdi": "EGE ÜNİVERSİTESİ", "KKTCUyruklu": int64(0), "MTOK": int64(0), "GenelKontenjan": int64(5), "GenelEnKucukPuan": 200.0, "UcretDurumu": int64(2)},
	}

	sel := model.DefaultSelection()
	sel.UniversityNameSubstring = "ege"
	sel.ScoreRange.Min = 300
	where, err := Build(sel)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var matched []int
	for i, r := range rows {
		if Match(where, r) {
			matched = append(matched, i)
		}
	}
	if len(matched) != 1 || matched[0] != 0 {
		t.Errorf("matched rows = %v, want [0]", matched)
	}
}
