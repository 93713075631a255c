package goconnection

import "testing"

func Test_Operator_Valid_And_ForOrdering(t *testing.T) {
	tests := []struct {
		name     string
		in       Operator
		valid    bool
		ordering Direction
		mapErr   bool
	}{
		{"GT valid maps to ASC", OperatorGT, true, DirectionASC, false},
		{"LT valid maps to DESC", OperatorLT, true, DirectionDESC, false},
		{"EQ valid, no ordering", OperatorEQ, true, "", true},
		{"IN valid, no ordering", OperatorIN, true, "", true},
		{"LIKE valid, no ordering", OperatorLIKE, true, "", true},
		{"unknown invalid", Operator("~"), false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Valid(); got != tt.valid {
				t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
			}

			got, err := tt.in.ForOrdering()
			if (err != nil) != tt.mapErr {
				t.Fatalf("%s: ForOrdering err=%v want error=%v", tt.name, err, tt.mapErr)
			}
			if got != tt.ordering {
				t.Errorf("%s: ForOrdering=%v want %v", tt.name, got, tt.ordering)
			}
		})
	}
}
