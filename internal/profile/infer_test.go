package profile

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

func TestInferType(t *testing.T) {
	categories := make([]any, 100)
	free := make([]any, 100)
	for i := range categories {
		categories[i] = []string{"red", "green", "blue"}[i%3]
		free[i] = fmt.Sprintf("note %d", i)
	}
	dates := []any{"2024-01-01", "2024-01-02", "oops", nil, "2024-01-05"}
	halfDates := []any{"2024-01-01", "x", "2024-01-02", "y"}

	tests := []struct {
		name    string
		storage table.StorageType
		values  []any
		want    SemanticType
	}{
		{"int storage", table.StorageInt64, []any{int64(1)}, TypeNumeric},
		{"float storage", table.StorageFloat64, []any{nil}, TypeNumeric},
		{"datetime storage", table.StorageDatetime, []any{time.Now()}, TypeDatetime},
		{"bool storage", table.StorageBool, []any{true}, TypeBoolean},
		{"all null", table.StorageObject, []any{nil, nil}, TypeUnknown},
		{"empty", table.StorageObject, []any{}, TypeUnknown},
		{"parsed dates", table.StorageObject, dates, TypeDatetime},
		{"half dates", table.StorageObject, halfDates, TypeText},
		{"low cardinality", table.StorageObject, categories, TypeCategorical},
		{"free text", table.StorageObject, free, TypeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := &table.Column{Name: "c", Storage: tt.storage, Values: tt.values}
			p := New(DefaultOptions(), nil)
			cp := ColumnProfile{}
			p.countValues(&cp, tt.values, len(tt.values))
			assert.Equal(t, tt.want, InferType(col, cp.UniqueCount, 100))
		})
	}
}

func TestInferType_SamplesHead(t *testing.T) {
	values := make([]any, 0, 300)
	for i := 0; i < 100; i++ {
		values = append(values, "2024-02-01")
	}
	for i := 0; i < 200; i++ {
		values = append(values, fmt.Sprintf("text %d", i))
	}
	col := &table.Column{Name: "c", Values: values}
	assert.Equal(t, TypeDatetime, InferType(col, 201, 100))
	assert.Equal(t, TypeText, InferType(col, 201, 300))
}

func TestSemanticTypeJSON(t *testing.T) {
	for _, st := range []SemanticType{TypeUnknown, TypeNumeric, TypeDatetime, TypeBoolean, TypeCategorical, TypeText} {
		b, err := st.MarshalJSON()
		assert.NoError(t, err)
		var back SemanticType
		assert.NoError(t, back.UnmarshalJSON(b))
		assert.Equal(t, st, back)
	}
}
