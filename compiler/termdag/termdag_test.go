package termdag

import "testing"

func TestHashCons(t *testing.T) {
	d := New()
	one := d.Lit(LitInt(1))
	if d.Lit(LitInt(1)) != one {
		t.Errorf("Equal literals should share an id")
	}
	if d.Lit(LitString("1")) == one {
		t.Errorf("Literals of different kinds must not share an id")
	}
	a := d.App("Num", []TermId{one})
	if d.App("Num", []TermId{one}) != a {
		t.Errorf("Equal applications should share an id")
	}
	if d.App("Neg", []TermId{one}) == a {
		t.Errorf("Applications with different heads must not share an id")
	}
}

func TestString(t *testing.T) {
	d := New()
	testCases := []struct {
		name string
		id   TermId
		exp  string
	}{
		{"Int", d.Lit(LitInt(-5)), "-5"},
		{"String", d.Lit(LitString("itoa")), `"itoa"`},
		{"Unit", d.Lit(LitUnit{}), "()"},
		{"Var", d.Var("x"), "x"},
		{"Nested", d.App("make-function", []TermId{d.Lit(LitString("Add")), d.App("Num", []TermId{d.Lit(LitInt(1))})}), `(make-function "Add" (Num 1))`},
		{"NoArgs", d.App("Nil", nil), "(Nil)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if res := d.String(tc.id); res != tc.exp {
				t.Errorf("Expected %s, got %s instead", tc.exp, res)
			}
		})
	}
}
