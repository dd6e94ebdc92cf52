package gc

import "fmt"

// typeNameOf reports payload's dynamic type name for leak diagnostics. It
// is only ever called on a payload that has not been destroyed yet — the
// caller must not call it after runDestroy has cleared header.payload.
func typeNameOf(payload any) string {
	return fmt.Sprintf("%T", payload)
}
