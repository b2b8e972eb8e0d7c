package arm

// LinkInfo is a read-only view of one registered link.
type LinkInfo struct {
	ID          LinkID    `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Prev        LinkID    `json:"prev" yaml:"prev"`
	Length      float64   `json:"length" yaml:"length"`
	Direction   Direction `json:"direction" yaml:"direction"`
	Description string    `json:"description" yaml:"description"`
}

// Structure lists every registered link in ascending identifier order,
// each rendered by its own Describe.
func (m *Manipulator) Structure() []LinkInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.reg.IDs()
	infos := make([]LinkInfo, 0, len(ids))
	for _, id := range ids {
		l, _ := m.reg.Lookup(id)
		infos = append(infos, LinkInfo{
			ID:          id,
			Kind:        l.Kind().String(),
			Prev:        l.Prev(),
			Length:      l.Length(),
			Direction:   l.Direction(),
			Description: l.Describe(),
		})
	}
	return infos
}
