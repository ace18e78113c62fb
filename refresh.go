package turret

import "reflect"

// Host is implemented by whatever owns turret scene objects, for
// example an editor. Rebuild asks the host to recompute an object's
// derived state, so a turret re-aims when its target is dragged.
type Host interface {
	DesignTime() bool
	Rebuild(obj any)
}

// Refresh asks h to rebuild obj. Outside design time, or without a
// host or object, it does nothing. A nil pointer, map, slice or func
// held in obj counts as no object.
func Refresh(h Host, obj any) {
	if h == nil || isNil(obj) || !h.DesignTime() {
		return
	}
	h.Rebuild(obj)
}

func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
