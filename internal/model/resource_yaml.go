package model

import "gopkg.in/yaml.v3"

// MarshalYAML mirrors MarshalJSON: the variant's fields are flattened
// alongside a "type" tag, so the on-disk snapshot (state.yaml) round-trips
// through the same dispatch as the wire format.
func (r Resource) MarshalYAML() (interface{}, error) {
	data, err := yaml.Marshal(r.Data)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["type"] = string(r.Type())

	return fields, nil
}

// UnmarshalYAML is the symmetric counterpart, dispatching on the "type" tag.
func (r *Resource) UnmarshalYAML(value *yaml.Node) error {
	var probe struct {
		Type ResourceType `yaml:"type"`
	}
	if err := value.Decode(&probe); err != nil {
		return err
	}

	v, err := newVariant(probe.Type)
	if err != nil {
		return err
	}
	if err := value.Decode(v); err != nil {
		return SerializationError(err)
	}

	*r = Resource{Data: derefVariant(v)}
	return nil
}
