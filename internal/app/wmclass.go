package app

/*
#cgo pkg-config: gdk-3.0 glib-2.0
#include <stdlib.h>
#include <glib.h>
#include <gdk/gdk.h>
*/
import "C"

import "unsafe"

// setWMClass sets both WM_CLASS values. Must run before GDK opens the
// display.
func setWMClass(name, class string) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.g_set_prgname((*C.gchar)(cname))

	cclass := C.CString(class)
	defer C.free(unsafe.Pointer(cclass))
	C.gdk_set_program_class((*C.gchar)(cclass))
}
