package cart

import "testing"

func TestQuantitiesSumMatchesItems(t *testing.T) {
	t.Parallel()

	cases := [][]int64{
		nil,
		{7},
		{7, 7, 9},
		{1, 2, 3, 2, 1, 1},
	}
	for _, items := range cases {
		q := Quantities(items)
		sum := 0
		for id, n := range q {
			sum += n
			count := 0
			for _, item := range items {
				if item == id {
					count++
				}
			}
			if count != n {
				t.Fatalf("Quantities(%v)[%d] = %d, want %d", items, id, n, count)
			}
		}
		if sum != len(items) {
			t.Fatalf("Quantities(%v) sums to %d, want %d", items, sum, len(items))
		}
	}
}

func TestLinesKeepFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	lines := Lines([]int64{9, 7, 9, 3, 7, 9})
	want := []Line{{9, 3}, {7, 2}, {3, 1}}
	if len(lines) != len(want) {
		t.Fatalf("got %v want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("got %v want %v", lines, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	id := int64(501)
	original := State{ID: &id, Items: []int64{7}}
	clone := original.Clone()
	clone.Items[0] = 9
	*clone.ID = 1
	if original.Items[0] != 7 || *original.ID != 501 {
		t.Fatalf("clone shares memory with original: %+v", original)
	}
}
