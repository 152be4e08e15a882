package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewIntMatrix(3, 10, 0)
	if err := M.Set(1, 7, 42); err != nil {
		t.Fatal(err)
	}
	M.Set(1, 2, 11)
	M.Set(1, 5, 13)
	if v := M.Value(1, 7); v != 42 {
		t.Errorf("expected M(1,7)=42, is %d", v)
	}
	if v := M.Value(0, 7); v != M.NullValue() {
		t.Errorf("expected M(0,7) to be null, is %d", v)
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
	var cols []int
	M.EachInRow(1, func(j int, v int32) {
		cols = append(cols, j)
	})
	if len(cols) != 3 || cols[0] != 2 || cols[1] != 5 || cols[2] != 7 {
		t.Errorf("expected row 1 to be sorted by column, have %v", cols)
	}
}

func TestMatrixOverwriteAndDelete(t *testing.T) {
	M := NewIntMatrix(2, 4, -1)
	M.Set(0, 3, 1)
	M.Set(0, 3, 2)
	if v := M.Value(0, 3); v != 2 || M.ValueCount() != 1 {
		t.Errorf("expected overwrite, have %d with count %d", v, M.ValueCount())
	}
	M.Set(0, 3, -1)
	if M.ValueCount() != 0 || M.ColumnUsed(3) {
		t.Errorf("expected entry to be removed")
	}
	if err := M.Set(2, 0, 1); err == nil {
		t.Errorf("expected error for row out of range")
	}
	i := M.AddRow()
	if i != 2 || M.M() != 3 {
		t.Errorf("expected new row 2, have %d", i)
	}
	if err := M.Set(2, 0, 1); err != nil {
		t.Error(err)
	}
}
