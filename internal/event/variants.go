package event

// Type tags for the built-in event kinds.
const (
	TypeCreate = "create"
	TypeDelete = "delete"
	TypeChange = "change"
	TypeMove   = "move"
	TypeUI     = "ui"
)

// Wire keys used by the built-in variants.
const (
	KeyIDs           = "ids"
	KeyXML           = "xml"
	KeyElement       = "element"
	KeyName          = "name"
	KeyOldValue      = "oldValue"
	KeyNewValue      = "newValue"
	KeyNewParent     = "newParentId"
	KeyNewInput      = "newInputName"
	KeyNewCoordinate = "newCoordinate"
)

// Create records a block subtree being added to a workspace. IDs lists
// every block the subtree introduced; BlockID names its root.
type Create struct {
	Base
	xml string
	ids []string
}

// NewCreate constructs a create event. Pass WithBlock for the root block ID.
func NewCreate(workspaceID, xml string, ids []string, opts ...Option) (*Create, error) {
	base, err := New(TypeCreate, workspaceID, opts...)
	if err != nil {
		return nil, err
	}
	return &Create{Base: *base, xml: xml, ids: cloneStrings(ids)}, nil
}

func (e *Create) XML() string   { return e.xml }
func (e *Create) IDs() []string { return cloneStrings(e.ids) }

func (e *Create) Fields() (map[string]any, error) {
	fields, err := e.Base.Fields()
	if err != nil {
		return nil, err
	}
	if e.xml != "" {
		fields[KeyXML] = e.xml
	}
	if len(e.ids) > 0 {
		fields[KeyIDs] = cloneStrings(e.ids)
	}
	return fields, nil
}

func parseCreate(base *Base, fields map[string]any) (Event, error) {
	return &Create{
		Base: *base,
		xml:  optString(fields, KeyXML),
		ids:  optStrings(fields, KeyIDs),
	}, nil
}

// Delete records a block subtree being removed. XML holds the serialized
// subtree so the deletion can be inverted; IDs lists every removed block.
type Delete struct {
	Base
	xml string
	ids []string
}

func NewDelete(workspaceID, xml string, ids []string, opts ...Option) (*Delete, error) {
	base, err := New(TypeDelete, workspaceID, opts...)
	if err != nil {
		return nil, err
	}
	return &Delete{Base: *base, xml: xml, ids: cloneStrings(ids)}, nil
}

func (e *Delete) XML() string   { return e.xml }
func (e *Delete) IDs() []string { return cloneStrings(e.ids) }

func (e *Delete) Fields() (map[string]any, error) {
	fields, err := e.Base.Fields()
	if err != nil {
		return nil, err
	}
	if e.xml != "" {
		fields[KeyXML] = e.xml
	}
	if len(e.ids) > 0 {
		fields[KeyIDs] = cloneStrings(e.ids)
	}
	return fields, nil
}

func parseDelete(base *Base, fields map[string]any) (Event, error) {
	return &Delete{
		Base: *base,
		xml:  optString(fields, KeyXML),
		ids:  optStrings(fields, KeyIDs),
	}, nil
}

// Change records a mutation of one element of a block: a field value, a
// comment, a collapsed/disabled flag. Element says what kind of thing
// changed, Name disambiguates when a block has several (e.g. field name).
// OldValue is rarely populated by emitters and is carried through as-is.
type Change struct {
	Base
	element  string
	name     string
	oldValue string
	newValue string
}

func NewChange(workspaceID, element, name, oldValue, newValue string, opts ...Option) (*Change, error) {
	base, err := New(TypeChange, workspaceID, opts...)
	if err != nil {
		return nil, err
	}
	return &Change{
		Base:     *base,
		element:  element,
		name:     name,
		oldValue: oldValue,
		newValue: newValue,
	}, nil
}

func (e *Change) Element() string  { return e.element }
func (e *Change) Name() string     { return e.name }
func (e *Change) OldValue() string { return e.oldValue }
func (e *Change) NewValue() string { return e.newValue }

func (e *Change) Fields() (map[string]any, error) {
	fields, err := e.Base.Fields()
	if err != nil {
		return nil, err
	}
	if e.element != "" {
		fields[KeyElement] = e.element
	}
	if e.name != "" {
		fields[KeyName] = e.name
	}
	if e.oldValue != "" {
		fields[KeyOldValue] = e.oldValue
	}
	if e.newValue != "" {
		fields[KeyNewValue] = e.newValue
	}
	return fields, nil
}

func parseChange(base *Base, fields map[string]any) (Event, error) {
	return &Change{
		Base:     *base,
		element:  optString(fields, KeyElement),
		name:     optString(fields, KeyName),
		oldValue: optString(fields, KeyOldValue),
		newValue: optString(fields, KeyNewValue),
	}, nil
}

// Move records a block being reattached or dragged. Exactly one of the new-*
// fields is typically set: a parent+input when the block connects to another
// block, a coordinate ("x,y") when it lands on the canvas.
type Move struct {
	Base
	newParentID   string
	newInputName  string
	newCoordinate string
}

func NewMove(workspaceID, newParentID, newInputName, newCoordinate string, opts ...Option) (*Move, error) {
	base, err := New(TypeMove, workspaceID, opts...)
	if err != nil {
		return nil, err
	}
	return &Move{
		Base:          *base,
		newParentID:   newParentID,
		newInputName:  newInputName,
		newCoordinate: newCoordinate,
	}, nil
}

func (e *Move) NewParentID() string   { return e.newParentID }
func (e *Move) NewInputName() string  { return e.newInputName }
func (e *Move) NewCoordinate() string { return e.newCoordinate }

func (e *Move) Fields() (map[string]any, error) {
	fields, err := e.Base.Fields()
	if err != nil {
		return nil, err
	}
	if e.newParentID != "" {
		fields[KeyNewParent] = e.newParentID
	}
	if e.newInputName != "" {
		fields[KeyNewInput] = e.newInputName
	}
	if e.newCoordinate != "" {
		fields[KeyNewCoordinate] = e.newCoordinate
	}
	return fields, nil
}

func parseMove(base *Base, fields map[string]any) (Event, error) {
	return &Move{
		Base:          *base,
		newParentID:   optString(fields, KeyNewParent),
		newInputName:  optString(fields, KeyNewInput),
		newCoordinate: optString(fields, KeyNewCoordinate),
	}, nil
}

// UI records a view-only interaction (selection, click, category switch)
// that changes no workspace content but still travels the event stream so
// collaborators can mirror it.
type UI struct {
	Base
	element  string
	oldValue string
	newValue string
}

func NewUI(workspaceID, element, oldValue, newValue string, opts ...Option) (*UI, error) {
	base, err := New(TypeUI, workspaceID, opts...)
	if err != nil {
		return nil, err
	}
	return &UI{Base: *base, element: element, oldValue: oldValue, newValue: newValue}, nil
}

func (e *UI) Element() string  { return e.element }
func (e *UI) OldValue() string { return e.oldValue }
func (e *UI) NewValue() string { return e.newValue }

func (e *UI) Fields() (map[string]any, error) {
	fields, err := e.Base.Fields()
	if err != nil {
		return nil, err
	}
	if e.element != "" {
		fields[KeyElement] = e.element
	}
	if e.oldValue != "" {
		fields[KeyOldValue] = e.oldValue
	}
	if e.newValue != "" {
		fields[KeyNewValue] = e.newValue
	}
	return fields, nil
}

func parseUI(base *Base, fields map[string]any) (Event, error) {
	return &UI{
		Base:     *base,
		element:  optString(fields, KeyElement),
		oldValue: optString(fields, KeyOldValue),
		newValue: optString(fields, KeyNewValue),
	}, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
