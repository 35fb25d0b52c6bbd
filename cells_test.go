package fdt

import (
	"errors"
	"testing"
)

func TestAddressCellsDefault(t *testing.T) {
	ac, err := addressCellsOf(nil)
	if err != nil || ac != DefaultAddressCells {
		t.Errorf("addressCellsOf(nil) = %d, %v, want %d, nil", ac, err, DefaultAddressCells)
	}
}

func TestAddressCellsExplicit(t *testing.T) {
	n := &Node{Properties: []Property{{Name: "#address-cells", Value: classifyProperty(cellsBE(1, 1))}}}
	ac, err := addressCellsOf(n)
	if err != nil || ac != 1 {
		t.Errorf("addressCellsOf = %d, %v, want 1, nil", ac, err)
	}
}

func TestAddressCellsOutOfRange(t *testing.T) {
	n := &Node{Properties: []Property{{Name: "#address-cells", Value: classifyProperty(cellsBE(1, 5))}}}
	_, err := addressCellsOf(n)
	if !errors.Is(err, ErrInvalidAddressCells) {
		t.Errorf("err = %v, want ErrInvalidAddressCells", err)
	}
}

func TestReadCellsValueTwoCells(t *testing.T) {
	data := cellsBE(2, 0x1_0000_0000)
	v, err := readCellsValue(data, 0, 2)
	if err != nil || v != 0x1_0000_0000 {
		t.Errorf("readCellsValue = %#x, %v, want %#x, nil", v, err, 0x1_0000_0000)
	}
}

func TestReadCellsValueThreeCellsZeroUpper(t *testing.T) {
	data := append([]byte{0, 0, 0, 0}, cellsBE(2, 0x1234)...)
	v, err := readCellsValue(data, 0, 3)
	if err != nil || v != 0x1234 {
		t.Errorf("readCellsValue = %#x, %v, want %#x, nil", v, err, 0x1234)
	}
}

func TestReadCellsValueThreeCellsNonzeroUpperOverflows(t *testing.T) {
	data := append([]byte{0, 0, 0, 1}, cellsBE(2, 0x1234)...)
	_, err := readCellsValue(data, 0, 3)
	if !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("err = %v, want ErrAddressOverflow", err)
	}
}
