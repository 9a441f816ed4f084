package polycut

/*
#cgo LDFLAGS: -lgeos_c
#include <stdarg.h>
#include <geos_c.h>

static void polycut_message_handler(const char *fmt, ...) {}

static GEOSContextHandle_t polycut_geos_init(void) {
	return initGEOS_r(polycut_message_handler, polycut_message_handler);
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/paulsmith/gogeos/geos"
)

// The Go binding stops short of two operations the cutter needs:
// polygonization and full topological validity. Both exist in the C API it
// links against, so they are called here directly. Geometries cross the
// boundary as WKB, which is lossless. Each call uses its own context, so
// these are safe from the cutting workers.

func withGeosContext(fn func(C.GEOSContextHandle_t) error) error {
	handle := C.polycut_geos_init()
	if handle == nil {
		return errors.New("geos: could not initialize context")
	}
	defer C.finishGEOS_r(handle)
	return fn(handle)
}

func geomToC(handle C.GEOSContextHandle_t, g *geos.Geometry) (*C.GEOSGeometry, error) {
	wkb, err := g.WKB()
	if err != nil {
		return nil, err
	}
	if len(wkb) == 0 {
		return nil, errors.New("geos: empty WKB")
	}
	cg := C.GEOSGeomFromWKB_buf_r(handle, (*C.uchar)(unsafe.Pointer(&wkb[0])), C.size_t(len(wkb)))
	if cg == nil {
		return nil, errors.New("geos: reading WKB failed")
	}
	return cg, nil
}

func geomFromC(handle C.GEOSContextHandle_t, cg *C.GEOSGeometry) (*geos.Geometry, error) {
	var size C.size_t
	buf := C.GEOSGeomToWKB_buf_r(handle, cg, &size)
	if buf == nil {
		return nil, errors.New("geos: writing WKB failed")
	}
	defer C.GEOSFree_r(handle, unsafe.Pointer(buf))
	return geos.FromWKB(C.GoBytes(unsafe.Pointer(buf), C.int(size)))
}

// polygonize computes the faces enclosed by fully noded linework and
// returns them as a geometry collection.
func polygonize(lines ...*geos.Geometry) (*geos.Geometry, error) {
	if len(lines) == 0 {
		return nil, errors.New("geos: nothing to polygonize")
	}

	var result *geos.Geometry
	err := withGeosContext(func(handle C.GEOSContextHandle_t) error {
		cgeoms := make([]*C.GEOSGeometry, 0, len(lines))
		defer func() {
			for _, cg := range cgeoms {
				C.GEOSGeom_destroy_r(handle, cg)
			}
		}()
		for _, l := range lines {
			cg, err := geomToC(handle, l)
			if err != nil {
				return err
			}
			cgeoms = append(cgeoms, cg)
		}

		faces := C.GEOSPolygonize_r(handle, &cgeoms[0], C.uint(len(cgeoms)))
		if faces == nil {
			return errors.New("geos: polygonize failed")
		}
		defer C.GEOSGeom_destroy_r(handle, faces)

		var err error
		result, err = geomFromC(handle, faces)
		return err
	})
	return result, err
}

// isValid reports topological validity of g.
func isValid(g *geos.Geometry) (bool, error) {
	valid := false
	err := withGeosContext(func(handle C.GEOSContextHandle_t) error {
		cg, err := geomToC(handle, g)
		if err != nil {
			return err
		}
		defer C.GEOSGeom_destroy_r(handle, cg)

		switch C.GEOSisValid_r(handle, cg) {
		case 1:
			valid = true
		case 0:
			valid = false
		default:
			return errors.New("geos: validity check failed")
		}
		return nil
	})
	return valid, err
}
