// Package fetch holds the static configuration of the Fetch mobile manipulator and loads its
// description with a virtual base.
package fetch

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotbuilder/logging"
	"go.viam.com/robotbuilder/urdf"
	"go.viam.com/robotbuilder/virtualbase"
)

const (
	// URDF is the conventional location of the Fetch description under a model root.
	URDF = "models/fetch_description/robots/fetch.urdf"
	// ToolLink is the link at the end of the arm.
	ToolLink = "wrist_roll_link"
	// GripperRoot is the root link of the gripper.
	GripperRoot = "wrist_roll_link"
	// TransientPrefix starts the name of patched Fetch descriptions.
	TransientPrefix = "fetch_virtual_base_"
)

// Joint group names.
const (
	BaseTorsoGroup = "base_torso"
	ArmGroup       = "arm"
	GripperGroup   = "gripper"
	HeadGroup      = "head"
)

var (
	jointGroups = map[string][]string{
		BaseTorsoGroup: {urdf.XJoint, urdf.YJoint, "torso_lift_joint", urdf.ThetaJoint},
		ArmGroup: {
			"shoulder_pan_joint", "shoulder_lift_joint", "upperarm_roll_joint",
			"elbow_flex_joint", "forearm_roll_joint", "wrist_flex_joint",
			"wrist_roll_joint",
		},
		GripperGroup: {"r_gripper_finger_joint", "l_gripper_finger_joint"},
		HeadGroup:    {"head_pan_joint", "head_tilt_joint"},
	}

	// arm joint positions, in ArmGroup order, for carrying an object.
	carryArmConf = []float64{0, -1.0, 0, 1.5, 0, 1.3, 0}
)

// JointGroups returns the group names in a stable order.
func JointGroups() []string {
	return []string{BaseTorsoGroup, ArmGroup, GripperGroup, HeadGroup}
}

// GroupJoints returns a copy of the joints in group.
func GroupJoints(group string) ([]string, error) {
	joints, ok := jointGroups[group]
	if !ok {
		return nil, errors.Errorf("unknown fetch joint group %q", group)
	}
	return append([]string(nil), joints...), nil
}

// CarryArmConf returns a copy of the arm configuration used while carrying an object.
func CarryArmConf() []float64 {
	return append([]float64(nil), carryArmConf...)
}

// Loader loads URDF files with urdf.ParseModelFile.
var Loader = virtualbase.LoaderFunc[*urdf.Model](func(ctx context.Context, path string) (*urdf.Model, error) {
	return urdf.ParseModelFile(path, "")
})

// NewInjector returns an injector for Fetch descriptions. Transient files are named with
// TransientPrefix unless opts set another prefix.
func NewInjector(
	resolver virtualbase.Resolver, logger logging.Logger, opts ...virtualbase.Option,
) *virtualbase.Injector[*urdf.Model] {
	opts = append([]virtualbase.Option{virtualbase.WithTransientPrefix(TransientPrefix)}, opts...)
	return virtualbase.NewInjector[*urdf.Model](resolver, Loader, logger, opts...)
}

// Load loads the Fetch description found by resolver, adding a virtual base if it has none, and
// checks that every joint group is present in the result. A model missing group joints is an
// error.
func Load(ctx context.Context, resolver virtualbase.Resolver, logger logging.Logger, opts ...virtualbase.Option) (*urdf.Model, error) {
	model, err := NewInjector(resolver, logger, opts...).Load(ctx, URDF)
	if err != nil {
		return nil, err
	}
	if err := CheckJointGroups(model); err != nil {
		return nil, err
	}
	return model, nil
}

// CheckJointGroups returns an error naming the first group with joints missing from model.
func CheckJointGroups(model *urdf.Model) error {
	for _, group := range JointGroups() {
		missing := lo.Filter(jointGroups[group], func(name string, _ int) bool {
			_, ok := model.Joint(name)
			return !ok
		})
		if len(missing) > 0 {
			return errors.Errorf("fetch model %q is missing %s joints %v", model.Name(), group, missing)
		}
	}
	return nil
}
