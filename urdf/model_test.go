package urdf

import (
	"math"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestParseModelFile(t *testing.T) {
	model, err := ParseModelFile(filepath.Join("testdata", "mobile_arm.urdf"), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "mobile_arm")
	test.That(t, model.HasVirtualBase(), test.ShouldBeTrue)
	test.That(t, model.DoF(), test.ShouldResemble, []string{"x", "y", "theta", "shoulder_pan_joint"})
	test.That(t, len(model.Joints()), test.ShouldEqual, 5)
	test.That(t, model.OriginalFile.Extension, test.ShouldEqual, Extension)

	theta, ok := model.Joint(ThetaJoint)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, math.IsInf(theta.Min, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(theta.Max, 1), test.ShouldBeTrue)

	pan, ok := model.Joint("shoulder_pan_joint")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pan.Type, test.ShouldEqual, RevoluteJoint)
	test.That(t, pan.Min, test.ShouldAlmostEqual, -1.6)
	test.That(t, pan.Max, test.ShouldAlmostEqual, 1.6)
	test.That(t, pan.Translation.Z, test.ShouldAlmostEqual, 0.7)
	test.That(t, pan.RPY.Z, test.ShouldAlmostEqual, 1.5708)

	mount, ok := model.Joint("gripper_mount")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, mount.Translation.X, test.ShouldAlmostEqual, 0.3)
	test.That(t, mount.RPY.Norm(), test.ShouldEqual, 0.)

	_, ok = model.Joint("elbow_flex_joint")
	test.That(t, ok, test.ShouldBeFalse)

	renamed, err := ParseModelFile(filepath.Join("testdata", "mobile_arm.urdf"), "fetch")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, renamed.Name(), test.ShouldEqual, "fetch")
}

func TestParseModelFileMissing(t *testing.T) {
	_, err := ParseModelFile(filepath.Join(t.TempDir(), "nope.urdf"), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read URDF file")
}

func TestUnmarshalModelXMLErrors(t *testing.T) {
	_, err := UnmarshalModelXML(nil, "")
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/>`), "")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/><link name="b"/>
		<joint name="j" type="spherical"><parent link="a"/><child link="b"/></joint></robot>`), "")
	test.That(t, err, test.ShouldBeError, NewUnsupportedJointTypeError("spherical"))

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/>
		<joint name="j" type="fixed"><parent link="a"/><child link="base_link"/></joint></robot>`), "")
	test.That(t, err, test.ShouldBeError, NewUnknownLinkError("j", "base_link"))

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/><link name="a"/></robot>`), "")
	test.That(t, err, test.ShouldBeError, NewDuplicateNameError("link", "a"))

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/><link name="b"/>
		<joint name="j" type="revolute"><parent link="a"/><child link="b"/></joint></robot>`), "")
	test.That(t, err, test.ShouldBeError, NewMissingLimitError("j"))

	_, err = UnmarshalModelXML([]byte(`<robot name="r"><link name="a"/><link name="b"/>
		<joint name="j" type="fixed"><parent link="a"/><child link="b"/><origin xyz="1 2"/></joint></robot>`), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "origin xyz")
}

func TestPartialVirtualBaseIsNotAVirtualBase(t *testing.T) {
	model, err := UnmarshalModelXML([]byte(`<robot name="r"><link name="world"/><link name="a"/>
		<joint name="x" type="prismatic"><parent link="world"/><child link="a"/>
		<limit lower="-1" upper="1"/></joint></robot>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.HasVirtualBase(), test.ShouldBeFalse)
}

func TestUnboundedJointTypes(t *testing.T) {
	model, err := UnmarshalModelXML([]byte(`<robot name="r"><link name="world"/><link name="a"/><link name="b"/>
		<joint name="floor" type="planar"><parent link="world"/><child link="a"/><axis xyz="0 0 1"/></joint>
		<joint name="free" type="floating"><parent link="a"/><child link="b"/></joint></robot>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.DoF(), test.ShouldResemble, []string{"floor", "free"})

	for _, name := range model.DoF() {
		joint, ok := model.Joint(name)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, math.IsInf(joint.Min, -1), test.ShouldBeTrue)
		test.That(t, math.IsInf(joint.Max, 1), test.ShouldBeTrue)
	}
}
