package urdf

import (
	"errors"
	"strings"
	"testing"

	"go.viam.com/test"
)

const bareRobot = `<robot name="r"><link name="base_link"/></robot>`

func TestHasVirtualBase(t *testing.T) {
	all := `<joint name="theta"/><joint name="x"/><joint name="y"/>`
	test.That(t, HasVirtualBase(all), test.ShouldBeTrue)
	test.That(t, HasVirtualBase(bareRobot), test.ShouldBeFalse)
	test.That(t, HasVirtualBase(""), test.ShouldBeFalse)

	t.Run("any missing joint means no virtual base", func(t *testing.T) {
		for _, missing := range VirtualBaseJoints() {
			var doc strings.Builder
			doc.WriteString("<robot>")
			for _, name := range VirtualBaseJoints() {
				if name != missing {
					doc.WriteString(`<joint name="` + name + `"/>`)
				}
			}
			doc.WriteString("</robot>")
			test.That(t, HasVirtualBase(doc.String()), test.ShouldBeFalse)
		}
	})

	t.Run("names must match exactly", func(t *testing.T) {
		doc := `<joint name="x_axis"/><joint name="yy"/><joint name="theta2"/>`
		test.That(t, HasVirtualBase(doc), test.ShouldBeFalse)
	})

	t.Run("injected fragment is detected", func(t *testing.T) {
		patched, err := InjectVirtualBase(bareRobot)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, HasVirtualBase(patched), test.ShouldBeTrue)
	})
}

func TestInjectVirtualBase(t *testing.T) {
	patched, err := InjectVirtualBase(bareRobot)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, patched, test.ShouldEqual,
		`<robot name="r">`+VirtualBaseFragment+`<link name="base_link"/></robot>`)

	t.Run("bytes around the insertion are preserved", func(t *testing.T) {
		doc := "<robot name=\"fetch\">\n\t<!-- keep > me -->\r\n  <link name=\"base_link\" />\n</robot>\n"
		patched, err := InjectVirtualBase(doc)
		test.That(t, err, test.ShouldBeNil)

		split := strings.IndexByte(doc, '>') + 1
		test.That(t, patched[:split], test.ShouldEqual, doc[:split])
		test.That(t, patched[split:split+len(VirtualBaseFragment)], test.ShouldEqual, VirtualBaseFragment)
		test.That(t, patched[split+len(VirtualBaseFragment):], test.ShouldEqual, doc[split:])
	})

	t.Run("missing root tag", func(t *testing.T) {
		_, err := InjectVirtualBase("robot name=r")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrMalformedDocument), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "missing root tag")

		_, err = InjectVirtualBase("")
		test.That(t, errors.Is(err, ErrMalformedDocument), test.ShouldBeTrue)
	})

	t.Run("a leading declaration takes the insertion", func(t *testing.T) {
		doc := `<?xml version="1.0"?><robot name="r"></robot>`
		patched, err := InjectVirtualBase(doc)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, patched, test.ShouldStartWith, `<?xml version="1.0"?>`+VirtualBaseFragment)
	})
}

func TestVirtualBaseFragmentParses(t *testing.T) {
	patched, err := InjectVirtualBase(bareRobot)
	test.That(t, err, test.ShouldBeNil)

	model, err := UnmarshalModelXML([]byte(patched), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "r")
	test.That(t, model.HasVirtualBase(), test.ShouldBeTrue)
	test.That(t, model.Links(), test.ShouldResemble,
		[]string{"world", "base_x_link", "base_y_link", "base_theta_link", BaseLink})
	test.That(t, model.DoF(), test.ShouldResemble, VirtualBaseJoints())

	x, ok := model.Joint(XJoint)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, x.Type, test.ShouldEqual, PrismaticJoint)
	test.That(t, x.Parent, test.ShouldEqual, "world")
	test.That(t, x.Child, test.ShouldEqual, "base_x_link")
	test.That(t, x.Axis.X, test.ShouldEqual, 1.)
	test.That(t, x.Min, test.ShouldEqual, -20.)
	test.That(t, x.Max, test.ShouldEqual, 20.)
	test.That(t, x.Effort, test.ShouldEqual, 1000.)
	test.That(t, x.Velocity, test.ShouldEqual, 2.)

	y, ok := model.Joint(YJoint)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, y.Axis.Y, test.ShouldEqual, 1.)
	test.That(t, y.Parent, test.ShouldEqual, "base_x_link")

	theta, ok := model.Joint(ThetaJoint)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, theta.Type, test.ShouldEqual, ContinuousJoint)
	test.That(t, theta.Axis.Z, test.ShouldEqual, 1.)
	test.That(t, theta.Velocity, test.ShouldEqual, 2.)

	body, ok := model.Joint("base_to_body")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, body.Type, test.ShouldEqual, FixedJoint)
	test.That(t, body.Parent, test.ShouldEqual, "base_theta_link")
	test.That(t, body.Child, test.ShouldEqual, BaseLink)
	test.That(t, body.Translation.Norm(), test.ShouldEqual, 0.)
}
