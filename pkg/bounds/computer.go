package bounds

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfkit/pkg/accessor"
	"github.com/Faultbox/gltfkit/pkg/gltf"
	"github.com/Faultbox/gltfkit/pkg/math"
)

var (
	ErrUnknownScene = errors.New("scene not found")
	ErrUnknownMesh  = errors.New("mesh not found")
	ErrNoPosition   = errors.New("primitive has no usable POSITION accessor")
)

// Computer walks the scene graph of a loaded asset.
type Computer struct {
	asset *gltf.Asset
	log   *zap.Logger
}

// NewComputer returns a computer for a. Skipped primitives and node
// cycles are reported to log; nil discards them.
func NewComputer(a *gltf.Asset, log *zap.Logger) *Computer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Computer{asset: a, log: log}
}

// ComputeAsset returns the union of all scenes. Documents without scenes
// use every node that is nobody's child as a root.
func (c *Computer) ComputeAsset() Box {
	doc := c.asset.Document
	box := NewBox()

	if len(doc.Scenes) == 0 {
		for _, id := range rootNodes(doc) {
			c.computeNode(id, math.Identity(), &box, map[string]bool{})
		}
		return box
	}

	for id := range doc.Scenes {
		sceneBox, _ := c.ComputeScene(id, math.Identity())
		box.ExpandByBox(sceneBox)
	}
	return box
}

// ComputeScene returns the bounds of scene id with every root node placed
// under the root transform.
func (c *Computer) ComputeScene(id string, root math.Mat4) (Box, error) {
	scene, ok := c.asset.Document.Scenes[id]
	if !ok {
		return NewBox(), fmt.Errorf("%w: %s", ErrUnknownScene, id)
	}

	box := NewBox()
	for _, nodeID := range scene.Nodes {
		c.computeNode(nodeID, root, &box, map[string]bool{})
	}
	return box, nil
}

// computeNode adds node id and its subtree to box. path holds the nodes
// on the way down from the root and cuts cycles.
func (c *Computer) computeNode(id string, parent math.Mat4, box *Box, path map[string]bool) {
	node, ok := c.asset.Document.Nodes[id]
	if !ok {
		c.log.Warn("skipping unknown node", zap.String("node", id))
		return
	}
	if path[id] {
		c.log.Warn("node cycle", zap.String("node", id))
		return
	}
	path[id] = true
	defer delete(path, id)

	global := parent.Mul(LocalTransform(node))

	for _, meshID := range node.Meshes {
		meshBox, err := c.ComputeMesh(meshID, global)
		if err != nil {
			c.log.Warn("skipping mesh", zap.String("node", id), zap.Error(err))
			continue
		}
		box.ExpandByBox(meshBox)
	}

	for _, child := range node.Children {
		c.computeNode(child, global, box, path)
	}
}

// ComputeMesh returns the bounds of every primitive of mesh id after
// applying transform. Primitives without float positions are skipped.
func (c *Computer) ComputeMesh(id string, transform math.Mat4) (Box, error) {
	mesh, ok := c.asset.Document.Meshes[id]
	if !ok {
		return NewBox(), fmt.Errorf("%w: %s", ErrUnknownMesh, id)
	}

	box := NewBox()
	for i, prim := range mesh.Primitives {
		if prim == nil {
			continue
		}
		if err := c.expandByPrimitive(&box, prim, transform); err != nil {
			c.log.Warn("skipping primitive",
				zap.String("mesh", id),
				zap.Int("primitive", i),
				zap.Error(err))
		}
	}
	return box, nil
}

func (c *Computer) expandByPrimitive(box *Box, prim *gltf.Primitive, transform math.Mat4) error {
	accID, ok := prim.Attributes[gltf.PositionAttribute]
	if !ok {
		return ErrNoPosition
	}
	acc, ok := c.asset.Document.Accessors[accID]
	if !ok {
		return fmt.Errorf("%w: accessor %s not found", ErrNoPosition, accID)
	}
	if err := accessor.AssertFloatLike(acc.ComponentType); err != nil {
		return fmt.Errorf("%w: %v", ErrNoPosition, err)
	}
	if n, err := acc.Type.ComponentCount(); err != nil || n < 3 {
		return fmt.Errorf("%w: type %s", ErrNoPosition, acc.Type)
	}

	positions, err := gltf.AccessorView[float32](c.asset, accID)
	if err != nil {
		return err
	}
	for e := 0; e < positions.Count(); e++ {
		p, err := positions.Vec3At(e)
		if err != nil {
			return err
		}
		box.ExpandByPoint(transform.TransformPoint(math.Vec3{X: p[0], Y: p[1], Z: p[2]}))
	}
	return nil
}

// LocalTransform returns the node's matrix, or its translation, rotation
// and scale composed as T * R * S. Missing parts default to identity.
func LocalTransform(n *gltf.Node) math.Mat4 {
	if m, ok := math.Mat4FromSlice(n.Matrix); ok {
		return m
	}

	t, _ := math.Vec3FromSlice(n.Translation)
	r, _ := math.QuatFromSlice(n.Rotation)
	s, ok := math.Vec3FromSlice(n.Scale)
	if !ok {
		s = math.Splat(1)
	}
	return math.FromTRS(t, r, s)
}

func rootNodes(doc *gltf.Document) []string {
	isChild := make(map[string]bool)
	for _, n := range doc.Nodes {
		for _, child := range n.Children {
			isChild[child] = true
		}
	}
	var roots []string
	for id := range doc.Nodes {
		if !isChild[id] {
			roots = append(roots, id)
		}
	}
	return roots
}
