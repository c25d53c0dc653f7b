package password

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	Convey("Given a bcrypt hasher with the minimum cost", t, func() {
		h := NewBcryptHasher(WithCost(bcrypt.MinCost))

		Convey("When hashing a password", func() {
			hash, err := h.Hash("sekrit")
			So(err, ShouldBeNil)
			So(hash, ShouldNotBeEmpty)
			So(hash, ShouldNotEqual, "sekrit")

			Convey("Then the same password verifies", func() {
				So(h.Compare(hash, "sekrit"), ShouldBeNil)
			})

			Convey("Then a wrong password is rejected with ErrMismatch", func() {
				So(h.Compare(hash, "wrong"), ShouldEqual, ErrMismatch)
			})

			Convey("Then two hashes of the same password differ", func() {
				second, err := h.Hash("sekrit")
				So(err, ShouldBeNil)
				So(second, ShouldNotEqual, hash)
			})
		})

		Convey("When comparing against garbage", func() {
			err := h.Compare("not-a-bcrypt-hash", "sekrit")
			So(err, ShouldNotBeNil)
			So(err, ShouldNotEqual, ErrMismatch)
		})
	})

	Convey("Given an out-of-range cost option", t, func() {
		h := NewBcryptHasher(WithCost(500))

		Convey("Then the default cost is kept and hashing still works", func() {
			hash, err := h.Hash("pw")
			So(err, ShouldBeNil)
			So(h.Compare(hash, "pw"), ShouldBeNil)
		})
	})
}
