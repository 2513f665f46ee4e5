package xunsafe_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/murymi/mheap/pkg/xunsafe"
)

func TestByteMath(t *testing.T) {
	Convey("Given a packed buffer", t, func() {
		var buf [16]byte

		Convey("ByteStore and ByteLoad round-trip at byte offsets", func() {
			xunsafe.ByteStore(&buf[0], 8, uint64(0xDEADBEEF))
			So(xunsafe.ByteLoad[uint64](&buf[0], 8), ShouldEqual, uint64(0xDEADBEEF))
		})

		Convey("ByteAdd lands on the stored bytes", func() {
			xunsafe.ByteStore(&buf[0], 8, uint32(0x01020304))
			p := xunsafe.ByteAdd[uint32](&buf[0], 8)
			So(*p, ShouldEqual, uint32(0x01020304))
		})

		Convey("ByteSub measures raw distance", func() {
			So(xunsafe.ByteSub(&buf[12], &buf[0]), ShouldEqual, 12)
			So(xunsafe.ByteSub(&buf[0], &buf[12]), ShouldEqual, -12)
		})
	})
}
