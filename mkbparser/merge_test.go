package mkbparser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/giygas/mkb-merge/mkbparser/entities"
)

func table(columns []string, rows ...[]string) *entities.Table {
	t := entities.NewTable(columns...)
	for _, r := range rows {
		t.AppendRow(r...)
	}
	return t
}

func TestOuterJoin(t *testing.T) {
	left := table([]string{"code", "diagnosis_en"},
		[]string{"A00", "Cholera"},
		[]string{"B01", "Varicella"},
	)
	right := table([]string{"code", "diagnosis_ru"},
		[]string{"B01", "Ветряная оспа"},
		[]string{"C34", "Рак лёгкого"},
	)

	out, err := OuterJoin(left, right, "code")
	if err != nil {
		t.Fatalf("OuterJoin returned error: %v", err)
	}

	if !reflect.DeepEqual(out.Columns, []string{"code", "diagnosis_en", "diagnosis_ru"}) {
		t.Errorf("Unexpected columns: %v", out.Columns)
	}

	expected := [][]string{
		{"A00", "Cholera", ""},
		{"B01", "Varicella", "Ветряная оспа"},
		{"C34", "", "Рак лёгкого"},
	}
	if !reflect.DeepEqual(out.Rows, expected) {
		t.Errorf("Unexpected rows:\n got %v\nwant %v", out.Rows, expected)
	}
}

func TestOuterJoinRepeatedKeys(t *testing.T) {
	left := table([]string{"code", "l"},
		[]string{"K", "l1"},
		[]string{"K", "l2"},
	)
	right := table([]string{"code", "r"},
		[]string{"K", "r1"},
		[]string{"K", "r2"},
	)

	out, err := OuterJoin(left, right, "code")
	if err != nil {
		t.Fatalf("OuterJoin returned error: %v", err)
	}

	expected := [][]string{
		{"K", "l1", "r1"},
		{"K", "l1", "r2"},
		{"K", "l2", "r1"},
		{"K", "l2", "r2"},
	}
	if !reflect.DeepEqual(out.Rows, expected) {
		t.Errorf("Unexpected rows:\n got %v\nwant %v", out.Rows, expected)
	}
}

func TestOuterJoinEmptyKeys(t *testing.T) {
	left := table([]string{"code", "l"}, []string{"", "l1"})
	right := table([]string{"code", "r"}, []string{"", "r1"})

	out, err := OuterJoin(left, right, "code")
	if err != nil {
		t.Fatalf("OuterJoin returned error: %v", err)
	}
	if out.Len() != 1 || out.Rows[0][2] != "r1" {
		t.Errorf("Empty keys should pair up, got %v", out.Rows)
	}
}

func TestOuterJoinErrors(t *testing.T) {
	withCode := table([]string{"code", "diagnosis_en"})

	if _, err := OuterJoin(table([]string{"id"}), withCode, "code"); err == nil {
		t.Error("Expected error when left has no key column")
	}
	if _, err := OuterJoin(withCode, table([]string{"id"}), "code"); err == nil {
		t.Error("Expected error when right has no key column")
	}

	_, err := OuterJoin(withCode, table([]string{"code", "diagnosis_en"}), "code")
	if !errors.Is(err, ErrColumnConflict) {
		t.Errorf("Expected ErrColumnConflict, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	en := table([]string{"code", "diagnosis_en"}, []string{"A00.0", "Cholera"})
	sr := table([]string{"code", "diagnosis_sr_latn", "diagnosis_lat"}, []string{"B01.0", "Grip", "Influenza"})
	ru := table([]string{"code", "diagnosis_ru"}, []string{"A00.0", "Холера"})

	out, err := Merge("code", en, sr, ru)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	if got := len(out.Columns); got != 5 {
		t.Errorf("Expected 5 columns, got %d", got)
	}
	if out.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d: %v", out.Len(), out.Rows)
	}
	if out.Value(0, "diagnosis_ru") != "Холера" || out.Value(0, "diagnosis_en") != "Cholera" {
		t.Errorf("A00.0 not combined: %v", out.Rows[0])
	}
	if out.Value(1, "code") != "B01.0" || out.Value(1, "diagnosis_en") != "" {
		t.Errorf("Unexpected second row: %v", out.Rows[1])
	}

	single, err := Merge("code", en)
	if err != nil || single != en {
		t.Errorf("Merging one table should return it, got %v, %v", single, err)
	}

	if _, err := Merge("code"); err == nil {
		t.Error("Expected error when merging nothing")
	}
}
