package dicomtag

import (
	"fmt"
	"strconv"
	"strings"
)

// Unbounded is the VM.Max of multiplicities such as "1-n".
const Unbounded = -1

// VM is a value multiplicity, PS3.5 6.4. It is either a fixed count
// (Min == Max), a bounded range, or undefined (Max == Unbounded).
//
// Step is the stride of "2-2n" style multiplicities; 1 otherwise.
type VM struct {
	Min  int
	Max  int
	Step int
}

// UndefinedVM is used for entries whose multiplicity is not known.
var UndefinedVM = VM{Min: 0, Max: Unbounded, Step: 1}

// ParseVM parses dictionary notation: "1", "1-3", "1-n", "2-2n", "3-3n".
// The empty string yields UndefinedVM.
func ParseVM(s string) (VM, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UndefinedVM, nil
	}
	parts := strings.SplitN(s, "-", 2)
	lo, err := strconv.Atoi(parts[0])
	if err != nil || lo < 0 {
		return VM{}, fmt.Errorf("malformed VM %q", s)
	}
	if len(parts) == 1 {
		return VM{Min: lo, Max: lo, Step: 1}, nil
	}
	hi := parts[1]
	if strings.HasSuffix(hi, "n") {
		step := 1
		if prefix := strings.TrimSuffix(hi, "n"); prefix != "" {
			if step, err = strconv.Atoi(prefix); err != nil || step <= 0 {
				return VM{}, fmt.Errorf("malformed VM %q", s)
			}
		}
		return VM{Min: lo, Max: Unbounded, Step: step}, nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < lo {
		return VM{}, fmt.Errorf("malformed VM %q", s)
	}
	return VM{Min: lo, Max: max, Step: 1}, nil
}

// MustParseVM is like ParseVM but panics on malformed input.
func MustParseVM(s string) VM {
	vm, err := ParseVM(s)
	if err != nil {
		panic(err)
	}
	return vm
}

// IsUndefined reports whether the multiplicity has no upper bound.
func (vm VM) IsUndefined() bool { return vm.Max == Unbounded }

// Equals reports whether vm is the fixed count n.
func (vm VM) Equals(n int) bool { return vm.Min == n && vm.Max == n }

// Satisfies reports whether an element carrying n values conforms to vm. An
// empty value (n == 0) always conforms.
func (vm VM) Satisfies(n int) bool {
	if n == 0 {
		return true
	}
	if n < vm.Min {
		return false
	}
	if vm.Max != Unbounded && n > vm.Max {
		return false
	}
	if vm.Step > 1 && n%vm.Step != 0 {
		return false
	}
	return true
}

func (vm VM) String() string {
	switch {
	case vm == UndefinedVM:
		return ""
	case vm.Max == Unbounded && vm.Step > 1:
		return fmt.Sprintf("%d-%dn", vm.Min, vm.Step)
	case vm.Max == Unbounded:
		return fmt.Sprintf("%d-n", vm.Min)
	case vm.Min == vm.Max:
		return strconv.Itoa(vm.Min)
	}
	return fmt.Sprintf("%d-%d", vm.Min, vm.Max)
}
