package themis

import (
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tartarus-sandbox/minos/pkg/domain"
)

// Element is one node of a policy document: a tag, string attributes and
// ordered children. The shape is format-agnostic; MarshalPolicy binds it
// to YAML.
type Element struct {
	Tag        string            `yaml:"tag" json:"tag"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Children   []*Element        `yaml:"children,omitempty" json:"children,omitempty"`
}

const (
	tagPermission = "Permission"
	tagPath       = "Path"
	tagCriteria   = "Criteria"

	attrUnrestricted = "Unrestricted"
	attrValue        = "value"
	attrMachine      = "machine"
	attrLabel        = "label"
	attrCategory     = "category"
	attrAccess       = "access"
)

// Encode renders the set's selectors as an element tree. Only selectors
// and the unrestricted flag are persisted, never the resolved cache.
func (p *QueuePermission) Encode() *Element {
	root := &Element{Tag: tagPermission}
	if p.unrestricted {
		root.Attributes = map[string]string{attrUnrestricted: "true"}
		return root
	}
	for _, e := range p.entries {
		root.Children = append(root.Children, encodeEntry(e))
	}
	return root
}

func encodeEntry(e *PermissionEntry) *Element {
	if e.isPath {
		return &Element{
			Tag: tagPath,
			Attributes: map[string]string{
				attrValue:  string(e.path),
				attrAccess: e.access.String(),
			},
		}
	}
	attrs := map[string]string{attrAccess: e.access.String()}
	if e.criteria.Machine != "" {
		attrs[attrMachine] = e.criteria.Machine
	}
	if e.criteria.Label != "" {
		attrs[attrLabel] = e.criteria.Label
	}
	if e.criteria.Category != uuid.Nil {
		attrs[attrCategory] = e.criteria.Category.String()
	}
	return &Element{Tag: tagCriteria, Attributes: attrs}
}

// DecodePermission rebuilds a permission set from an element tree. The
// result is always unresolved. Unknown attributes and unknown access
// names are ignored; unknown tags are a *MalformedDocumentError.
func DecodePermission(el *Element) (*QueuePermission, error) {
	if el == nil {
		return nil, NewMalformedDocumentError("", "document is empty")
	}
	if el.Tag != tagPermission {
		return nil, NewMalformedDocumentError(el.Tag, "unknown root tag")
	}

	if raw, ok := el.Attributes[attrUnrestricted]; ok {
		if unrestricted, err := strconv.ParseBool(raw); err == nil && unrestricted {
			return NewUnrestrictedQueuePermission(), nil
		}
	}

	p := NewQueuePermission()
	for _, child := range el.Children {
		e, err := decodeEntry(child)
		if err != nil {
			return nil, err
		}
		if err := p.Add(e); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodeEntry(el *Element) (*PermissionEntry, error) {
	if el == nil {
		return nil, NewMalformedDocumentError("", "selector element is empty")
	}
	access := domain.ParseQueueAccess(el.Attributes[attrAccess])

	switch el.Tag {
	case tagPath:
		path, ok := el.Attributes[attrValue]
		if !ok || path == "" {
			return nil, NewMalformedDocumentError(tagPath, "path record lacks its value")
		}
		return NewPathEntry(access, domain.QueuePath(path))

	case tagCriteria:
		var c domain.Criteria
		c.Machine = el.Attributes[attrMachine]
		c.Label = el.Attributes[attrLabel]
		if raw, ok := el.Attributes[attrCategory]; ok {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, NewMalformedDocumentError(tagCriteria, "category is not a valid identifier")
			}
			c.Category = id
		}
		if c.IsZero() {
			return nil, NewMalformedDocumentError(tagCriteria, "criteria record has no field set")
		}
		return NewCriteriaEntry(access, c)

	default:
		return nil, NewMalformedDocumentError(el.Tag, "selector is neither a path nor a criteria record")
	}
}

// MarshalPolicy serializes a permission set as a YAML policy document.
func MarshalPolicy(p *QueuePermission) ([]byte, error) {
	return yaml.Marshal(p.Encode())
}

// UnmarshalPolicy parses a YAML policy document. A document that does not
// parse as YAML at all is a *MalformedDocumentError too.
func UnmarshalPolicy(data []byte) (*QueuePermission, error) {
	var el Element
	if err := yaml.Unmarshal(data, &el); err != nil {
		return nil, NewMalformedDocumentError("", "not a policy document: "+err.Error())
	}
	return DecodePermission(&el)
}
