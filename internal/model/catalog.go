package model

// Interface is a named group of methods kept in declaration order.
type Interface struct {
	Name string

	methods []*Method
	byName  map[string]*Method
}

func NewInterface(name string) *Interface {
	return &Interface{Name: name, byName: map[string]*Method{}}
}

// Add appends m, or replaces the method with the same name in place.
func (i *Interface) Add(m *Method) {
	if i.byName == nil {
		i.byName = map[string]*Method{}
	}
	if _, ok := i.byName[m.Name]; ok {
		for idx, existing := range i.methods {
			if existing.Name == m.Name {
				i.methods[idx] = m
				break
			}
		}
	} else {
		i.methods = append(i.methods, m)
	}
	i.byName[m.Name] = m
}

func (i *Interface) Method(name string) (*Method, bool) {
	if i == nil {
		return nil, false
	}
	m, ok := i.byName[name]
	return m, ok
}

func (i *Interface) Methods() []*Method {
	if i == nil {
		return nil
	}
	return i.methods
}

func (i *Interface) MethodNames() []string {
	if i == nil {
		return nil
	}
	out := make([]string, len(i.methods))
	for idx, m := range i.methods {
		out[idx] = m.Name
	}
	return out
}

func (i *Interface) Len() int {
	if i == nil {
		return 0
	}
	return len(i.methods)
}

// Catalog maps interface names to interfaces, preserving insertion order.
// Method pointers are shared between a catalog and the filtered views built
// from it, so a favorite toggled through one is visible through the other.
type Catalog struct {
	ifaces []*Interface
	byName map[string]*Interface
}

func NewCatalog() *Catalog {
	return &Catalog{byName: map[string]*Interface{}}
}

// Add inserts iface. A repeated name merges its methods into the existing entry.
func (c *Catalog) Add(iface *Interface) {
	if c.byName == nil {
		c.byName = map[string]*Interface{}
	}
	if existing, ok := c.byName[iface.Name]; ok {
		for _, m := range iface.methods {
			existing.Add(m)
		}
		return
	}
	c.ifaces = append(c.ifaces, iface)
	c.byName[iface.Name] = iface
}

// AddMethod inserts m under iface, creating the interface on first use.
func (c *Catalog) AddMethod(iface string, m *Method) {
	i, ok := c.byName[iface]
	if !ok {
		i = NewInterface(iface)
		c.Add(i)
	}
	i.Add(m)
}

func (c *Catalog) Interface(name string) (*Interface, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byName[name]
	return i, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.Interface(name)
	return ok
}

func (c *Catalog) Method(iface, method string) (*Method, bool) {
	i, ok := c.Interface(iface)
	if !ok {
		return nil, false
	}
	return i.Method(method)
}

func (c *Catalog) Interfaces() []*Interface {
	if c == nil {
		return nil
	}
	return c.ifaces
}

func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.ifaces))
	for idx, i := range c.ifaces {
		out[idx] = i.Name
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ifaces)
}

// MethodCount returns the number of (interface, method) pairs.
func (c *Catalog) MethodCount() int {
	n := 0
	for _, i := range c.Interfaces() {
		n += i.Len()
	}
	return n
}

// Entries flattens the catalog into search entries in declaration order.
func (c *Catalog) Entries() []SearchEntry {
	out := make([]SearchEntry, 0, c.MethodCount())
	for _, i := range c.Interfaces() {
		for _, m := range i.methods {
			out = append(out, SearchEntry{Interface: i.Name, Method: m.Name})
		}
	}
	return out
}
