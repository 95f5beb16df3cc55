package tariffbot

import (
	"reflect"
	"testing"

	"gopkg.in/reform.v1/parse"
)

// Метаданные в orders_reform.go поддерживаются руками, поэтому сверяем их
// с тем, что парсер reform извлекает из структуры Order в рантайме.
func TestOrderTableUpToDate(t *testing.T) {
	runtime, err := parse.Object(new(Order), OrderTable.Schema(), OrderTable.Name())
	if err != nil {
		t.Fatalf("parse.Object: %v", err)
	}
	if !reflect.DeepEqual(&OrderTable.s, runtime) {
		t.Errorf("metadata out of sync:\nhave %s\nwant %s", OrderTable.s.GoString(), runtime.GoString())
	}
	if got := OrderTable.PKColumnIndex(); got != 0 {
		t.Errorf("PKColumnIndex() = %d, want 0", got)
	}
	if got, want := len(OrderTable.Columns()), len(new(Order).Values()); got != want {
		t.Errorf("len(Columns()) = %d, want %d", got, want)
	}
}
