package xunsafe_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/murymi/mheap/pkg/xunsafe"
)

func TestCast(t *testing.T) {
	Convey("Given a pointer to an integer", t, func() {
		v := uint64(0x0102030405060708)

		Convey("Casting reinterprets the pointee", func() {
			p := xunsafe.Cast[[8]byte](&v)
			So(p[0] == 0x08 || p[0] == 0x01, ShouldBeTrue)
		})
	})
}

func TestAdd(t *testing.T) {
	Convey("Given an array", t, func() {
		arr := [4]uint32{1, 2, 3, 4}

		Convey("Add walks its elements", func() {
			p := &arr[0]
			So(xunsafe.Add(p, 2), ShouldEqual, &arr[2])
			So(*xunsafe.Add(p, 3), ShouldEqual, uint32(4))
		})
	})
}

func TestCopyClear(t *testing.T) {
	Convey("Given two buffers", t, func() {
		src := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
		var dst [8]byte

		Convey("Copy moves elements between them", func() {
			xunsafe.Copy(&dst[0], &src[0], 8)
			So(dst, ShouldEqual, src)

			Convey("And Clear zeroes them again", func() {
				xunsafe.Clear(&dst[0], 8)
				So(dst, ShouldEqual, [8]byte{})
			})
		})
	})
}
