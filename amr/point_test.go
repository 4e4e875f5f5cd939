package amr

import (
	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestPoint3d(c *C) {
	a := Point3d{10, 21, 837821}
	b := Point3d{78312, -200, 40123}

	c.Assert(a.Add(b), Equals, Point3d{78322, -179, 877944})
	c.Assert(a.Sub(b), Equals, Point3d{-78302, 221, 797698})
	c.Assert(a.AddScalar(10), Equals, Point3d{20, 31, 837831})
	c.Assert(a.String(), Equals, "(10,21,837821)")

	lower := a
	lower.SetMinimum(b)
	c.Assert(lower, Equals, Point3d{10, -200, 40123})
	upper := a
	upper.SetMaximum(b)
	c.Assert(upper, Equals, Point3d{78312, 21, 837821})

	c.Assert(Point3d{2, 3, 4}.Prod(), Equals, int64(24))
	c.Assert(Point3d{2000, 2000, 2000}.Prod(), Equals, int64(8000000000))
}

func (s *DataSuite) TestPoint3dBytes(c *C) {
	a := Point3d{-1, 0, 2147483647}
	buf := a.Bytes()
	c.Assert(len(buf), Equals, Point3dSize)
	c.Assert(buf[0:4], DeepEquals, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	c.Assert(buf[8:12], DeepEquals, []byte{0xFF, 0xFF, 0xFF, 0x7F})

	b, err := Point3dFromBytes(buf)
	c.Assert(err, IsNil)
	c.Assert(b, Equals, a)

	_, err = Point3dFromBytes(buf[:11])
	c.Assert(err, NotNil)
}

func (s *DataSuite) TestFloorDiv(c *C) {
	tests := []struct {
		a, b, expected int32
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{-8, 2, -4},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
		{0, 5, 0},
		{-2147483648, 2, -1073741824},
		{-2147483648, 1, -2147483648},
		{-2147483647, 32, -67108864},
		{2147483647, 2, 1073741823},
	}
	for _, tc := range tests {
		c.Assert(floorDiv(tc.a, tc.b), Equals, tc.expected, Commentf("floorDiv(%d, %d)", tc.a, tc.b))
	}
}

func (s *DataSuite) TestStringConversion(c *C) {
	p, err := StringToPoint3d("1, -2,3", ",")
	c.Assert(err, IsNil)
	c.Assert(p, Equals, Point3d{1, -2, 3})

	_, err = StringToPoint3d("1_2", "_")
	c.Assert(err, NotNil)
	_, err = StringToPoint3d("1_2_x", "_")
	c.Assert(err, NotNil)

	v, err := StringToVector3d("0.5,1e-3,-2", ",")
	c.Assert(err, IsNil)
	c.Assert(v, Equals, Vector3d{0.5, 0.001, -2})
	c.Assert(v.String(), Equals, "(0.5,0.001,-2)")
	c.Assert(v.Add(Vector3d{0.5, 0, 2}), Equals, Vector3d{1, 0.001, 0})
	c.Assert(v.Subtract(v), Equals, Vector3d{})

	_, err = StringToVector3d("0.5,1", ",")
	c.Assert(err, NotNil)
}

func (s *DataSuite) TestRounding(c *C) {
	c.Assert(roundIndex(2.5), Equals, int32(3))
	c.Assert(roundIndex(2.4999), Equals, int32(2))
	c.Assert(roundIndex(-2.5), Equals, int32(-2))
	c.Assert(roundIndex(-2.51), Equals, int32(-3))
	c.Assert(floorIndex(-0.001), Equals, int32(-1))
	c.Assert(floorIndex(3.999), Equals, int32(3))
}

func (s *DataSuite) TestGridDescription(c *C) {
	c.Assert(XYPlane.ActiveAxes(), Equals, [3]bool{true, true, false})
	c.Assert(XZPlane.ActiveAxes(), Equals, [3]bool{true, false, true})
	c.Assert(YZPlane.ActiveAxes(), Equals, [3]bool{false, true, true})
	c.Assert(XYZGrid.ActiveAxes(), Equals, [3]bool{true, true, true})
	c.Assert(GridDescription(0).ActiveAxes(), Equals, [3]bool{})
	c.Assert(GridDescription(9).Valid(), Equals, false)
	c.Assert(XYZGrid.String(), Equals, "XYZ grid")
	c.Assert(AxisName(1), Equals, "Y")

	g, err := GridDescriptionString("1,2").GridDescription()
	c.Assert(err, IsNil)
	c.Assert(g, Equals, YZPlane)
	g, err = GridDescriptionString(" vol ").GridDescription()
	c.Assert(err, IsNil)
	c.Assert(g, Equals, XYZGrid)
}
