package core

// Registry is the authoritative roomId -> member set mapping. It carries no
// mutex: only the hub goroutine touches it, the same ownership model the
// transport layers must respect by going through hub commands.
type Registry struct {
	rooms map[string]map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]*Client)}
}

// Join adds the client to the room, creating the room on first join.
// Returns false if the client was already a member.
func (r *Registry) Join(roomID string, c *Client) bool {
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		r.rooms[roomID] = members
	}
	if _, exists := members[c.ID]; exists {
		return false
	}
	members[c.ID] = c
	c.Rooms[roomID] = struct{}{}
	return true
}

// Leave removes the client from the room, discarding the room when it
// becomes empty. Returns false if the client was not a member.
func (r *Registry) Leave(roomID string, c *Client) bool {
	members, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	if _, exists := members[c.ID]; !exists {
		return false
	}
	delete(members, c.ID)
	delete(c.Rooms, roomID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
	return true
}

// IsMember reports whether the client currently belongs to the room.
func (r *Registry) IsMember(roomID string, c *Client) bool {
	_, ok := c.Rooms[roomID]
	return ok
}

// Members returns all current members of the room.
func (r *Registry) Members(roomID string) []*Client {
	members := r.rooms[roomID]
	out := make([]*Client, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	return out
}

// MembersExcept returns all members of the room other than the given client.
func (r *Registry) MembersExcept(roomID string, c *Client) []*Client {
	members := r.rooms[roomID]
	out := make([]*Client, 0, len(members))
	for id, m := range members {
		if id == c.ID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// RemoveFromAllRooms removes the client from every room it joined and returns
// the remaining members per room. Cost is proportional to the rooms the
// client joined, since the client tracks its own room set.
func (r *Registry) RemoveFromAllRooms(c *Client) map[string][]*Client {
	remaining := make(map[string][]*Client, len(c.Rooms))
	for roomID := range c.Rooms {
		r.Leave(roomID, c)
		remaining[roomID] = r.Members(roomID)
	}
	return remaining
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	return len(r.rooms)
}
