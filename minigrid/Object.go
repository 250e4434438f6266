package minigrid

import (
	"fmt"
	"image"
	"sort"
)

// ObjectType is the type tag of a cell occupant. The integer value of an
// ObjectType is its index in observation encodings.
type ObjectType int

const (
	Unseen ObjectType = iota
	Empty
	Wall
	Floor
	Door
	Key
	Ball
	Box
	Goal
	Lava
	AgentCell
)

// NumObjectTypes is the number of distinct object type indices
const NumObjectTypes = int(AgentCell) + 1

var objectTypeNames = [...]string{
	"unseen", "empty", "wall", "floor", "door", "key", "ball", "box",
	"goal", "lava", "agent",
}

func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
	return objectTypeNames[t]
}

// ParseObjectType returns the ObjectType with the given name
func ParseObjectType(name string) (ObjectType, error) {
	for i, n := range objectTypeNames {
		if n == name {
			return ObjectType(i), nil
		}
	}
	return Unseen, fmt.Errorf("parseObjectType: no such object type %q", name)
}

// Color is the colour of an object. The integer value of a Color is its
// index in observation encodings.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Purple
	Yellow
	Grey
	Magenta
	White
	Orange
)

// NumColors is the number of distinct colours
const NumColors = int(Orange) + 1

var colorNames = [...]string{
	"red", "green", "blue", "purple", "yellow", "grey", "magenta",
	"white", "orange",
}

var colorRGB = [...][3]uint8{
	{255, 0, 0},
	{0, 255, 0},
	{0, 0, 255},
	{112, 39, 195},
	{255, 255, 0},
	{100, 100, 100},
	{255, 0, 255},
	{255, 255, 255},
	{255, 165, 0},
}

// ColorNames lists all colours sorted by name. Tasks that pick "the
// first n colours" index into this slice.
var ColorNames = sortedColors()

func sortedColors() []Color {
	colors := make([]Color, NumColors)
	for i := range colors {
		colors[i] = Color(i)
	}
	sort.Slice(colors, func(i, j int) bool {
		return colors[i].String() < colors[j].String()
	})
	return colors
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// RGB returns the display colour of c
func (c Color) RGB() (r, g, b uint8) {
	rgb := colorRGB[c]
	return rgb[0], rgb[1], rgb[2]
}

// ParseColor returns the Color with the given name
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return Red, fmt.Errorf("parseColor: no such color %q", name)
}

// Kind determines how the engine treats an object the agent walks onto.
type Kind int

const (
	// Plain objects follow the usual rules of their type: walls block,
	// goals and floors can be walked onto, keys, balls and boxes block
	// but can be picked up.
	Plain Kind = iota

	// Collectable objects can be walked onto. What happens to them is
	// decided by the Task of the environment.
	Collectable

	// Fruit objects are consumed by the engine when the agent walks onto
	// them: their reward is paid out and they are removed from the grid.
	Fruit
)

func (k Kind) String() string {
	switch k {
	case Collectable:
		return "Collectable"
	case Fruit:
		return "Fruit"
	default:
		return "Plain"
	}
}

// Object is a single occupant of a grid cell
type Object struct {
	typ      ObjectType
	color    Color
	kind     Kind
	name     string
	reward   float64
	terminal bool

	pos     image.Point
	initPos image.Point
}

func newObject(t ObjectType, c Color, k Kind) *Object {
	return &Object{
		typ:     t,
		color:   c,
		kind:    k,
		name:    t.String(),
		pos:     image.Pt(-1, -1),
		initPos: image.Pt(-1, -1),
	}
}

// NewWall returns a new wall
func NewWall() *Object { return newObject(Wall, Grey, Plain) }

// NewFloor returns a new floor tile of colour c
func NewFloor(c Color) *Object { return newObject(Floor, c, Plain) }

// NewLava returns a new lava tile
func NewLava() *Object { return newObject(Lava, Red, Plain) }

// NewGoal returns a new goal of colour c
func NewGoal(c Color) *Object { return newObject(Goal, c, Plain) }

// NewNamedGoal returns a new goal of colour c carrying a name, which
// tasks use to tell several goals apart
func NewNamedGoal(c Color, name string) *Object {
	g := NewGoal(c)
	g.name = name
	return g
}

// NewBall returns a new ball of colour c that the agent can pick up
func NewBall(c Color) *Object { return newObject(Ball, c, Plain) }

// NewKey returns a new key of colour c
func NewKey(c Color) *Object { return newObject(Key, c, Plain) }

// NewBox returns a new box of colour c
func NewBox(c Color) *Object { return newObject(Box, c, Plain) }

// NewCollectableBall returns a ball with a reward value that the agent
// can walk onto
func NewCollectableBall(c Color, reward float64) *Object {
	return NewCollectable(Ball, c, reward)
}

// NewCollectable returns a collectable object of type t with a reward
// value
func NewCollectable(t ObjectType, c Color, reward float64) *Object {
	o := newObject(t, c, Collectable)
	o.reward = reward
	return o
}

// NewFruit returns a fruit object of type t. When the agent walks onto
// a fruit it receives reward and the fruit disappears. If terminal is
// true, eating the fruit ends the episode.
func NewFruit(t ObjectType, c Color, reward float64, terminal bool) *Object {
	o := newObject(t, c, Fruit)
	o.reward = reward
	o.terminal = terminal
	return o
}

// Type returns the type of the object
func (o *Object) Type() ObjectType { return o.typ }

// Color returns the colour of the object
func (o *Object) Color() Color { return o.color }

// Kind returns the kind of the object
func (o *Object) Kind() Kind { return o.kind }

// Name returns the name of the object, which defaults to its type name
func (o *Object) Name() string { return o.name }

// SetName sets the name of the object
func (o *Object) SetName(name string) { o.name = name }

// Reward returns the reward value of the object
func (o *Object) Reward() float64 { return o.reward }

// SetReward sets the reward value of the object
func (o *Object) SetReward(r float64) { o.reward = r }

// Terminal returns whether consuming the object ends the episode
func (o *Object) Terminal() bool { return o.terminal }

// Pos returns the current position of the object, or (-1, -1) if the
// object is not on the grid
func (o *Object) Pos() image.Point { return o.pos }

// InitPos returns the position at which the object was first placed
func (o *Object) InitPos() image.Point { return o.initPos }

// CanOverlap returns whether the agent can stand on the object
func (o *Object) CanOverlap() bool {
	if o.kind != Plain {
		return true
	}
	switch o.typ {
	case Goal, Floor, Lava:
		return true
	}
	return false
}

// CanPickup returns whether the agent can pick the object up
func (o *Object) CanPickup() bool {
	if o.kind == Fruit {
		return false
	}
	switch o.typ {
	case Key, Ball, Box:
		return true
	}
	return false
}

// SeeBehind returns whether the agent can see through the object
func (o *Object) SeeBehind() bool {
	return o.typ != Wall
}

// Encode returns the (type, colour, state) encoding of the object
func (o *Object) Encode() [3]int {
	return [3]int{int(o.typ), int(o.color), 0}
}

// Matches returns whether o has the same type and colour as other
func (o *Object) Matches(other *Object) bool {
	return other != nil && o.typ == other.typ && o.color == other.color
}

func (o *Object) String() string {
	return fmt.Sprintf("%v %v (%v)", o.color, o.typ, o.kind)
}
