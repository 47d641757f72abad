package periodic

import "reflect"

func funcPtr(fn CallbackFunc) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
