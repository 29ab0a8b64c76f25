package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillList_Unmarshal(t *testing.T) {
	type body struct {
		Skills *SkillList `json:"skills"`
	}

	tests := []struct {
		name    string
		payload string
		want    *SkillList
	}{
		{"omitted", `{}`, nil},
		{"null", `{"skills": null}`, nil},
		{"space delimited", `{"skills": " go  rust\tzig "}`, skillList("go", "rust", "zig")},
		{"empty string", `{"skills": ""}`, skillList()},
		{"list", `{"skills": ["java script", "go"]}`, skillList("java script", "go")},
		{"empty list", `{"skills": []}`, skillList()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &b))
			if tt.want == nil {
				assert.Nil(t, b.Skills)
				return
			}
			require.NotNil(t, b.Skills)
			assert.ElementsMatch(t, *tt.want, *b.Skills)
		})
	}
}

func TestSkillList_RejectsOtherShapes(t *testing.T) {
	var l SkillList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &l))
}
