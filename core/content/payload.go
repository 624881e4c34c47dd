package content

// Payload is the ordered multipart field set assembled for one submission.
// It is a plain value so tests and the backend client can inspect exactly
// what would go on the wire.
type Payload struct {
	Fields []Field
	Files  []FilePart
}

type Field struct {
	Name  string
	Value string
}

type FilePart struct {
	Name     string
	Filename string
	Data     []byte
}

func (p *Payload) addField(name, value string) {
	p.Fields = append(p.Fields, Field{Name: name, Value: value})
}

func (p *Payload) addFile(name, filename string, data []byte) {
	p.Files = append(p.Files, FilePart{Name: name, Filename: filename, Data: data})
}

// FieldValue returns the first value of the named scalar field.
func (p *Payload) FieldValue(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FieldValues returns all values of the named scalar field, in order.
func (p *Payload) FieldValues(name string) []string {
	var vals []string
	for _, f := range p.Fields {
		if f.Name == name {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

// File returns the file part with the given field name.
func (p *Payload) File(name string) (FilePart, bool) {
	for _, f := range p.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FilePart{}, false
}

func (p *Payload) HasFile(name string) bool {
	_, ok := p.File(name)
	return ok
}
