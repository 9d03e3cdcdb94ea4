package internal

import (
	"iter"
	"strings"
	"sync"
)

// RoomRegistry owns the room catalog and the active-room selection.
// Catalog order is insertion order and never changes.
type RoomRegistry struct {
	mu     sync.RWMutex
	rooms  []Room
	index  map[string]int
	active string
	ids    IDGenerator
}

// NewRoomRegistry creates a registry seeded with rooms. Duplicate ids keep
// the first occurrence.
func NewRoomRegistry(rooms []Room, ids IDGenerator) *RoomRegistry {
	r := &RoomRegistry{
		rooms: make([]Room, 0, len(rooms)),
		index: make(map[string]int, len(rooms)),
		ids:   ids,
	}
	for _, room := range rooms {
		if _, dup := r.index[room.ID]; dup {
			LogWarn("Ignoring duplicate seeded room %s", room.ID)
			continue
		}
		if room.UnreadCount < 0 {
			room.UnreadCount = 0
		}
		r.index[room.ID] = len(r.rooms)
		r.rooms = append(r.rooms, room)
	}
	return r
}

// SelectRoom makes roomID the active room and clears its unread count
func (r *RoomRegistry) SelectRoom(roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[roomID]
	if !ok {
		return &RoomError{RoomID: roomID, Op: "select", Err: ErrNotFound}
	}
	r.active = roomID
	r.rooms[i].UnreadCount = 0
	return nil
}

// Active returns the active room, if one has been selected
func (r *RoomRegistry) Active() (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[r.active]
	if !ok {
		return Room{}, false
	}
	return r.rooms[i], true
}

// ActiveID returns the active room id, or "" before any selection
func (r *RoomRegistry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Room looks up a room by id
func (r *RoomRegistry) Room(roomID string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[roomID]
	if !ok {
		return Room{}, false
	}
	return r.rooms[i], true
}

// Rooms returns a copy of the catalog in catalog order
func (r *RoomRegistry) Rooms() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Filter yields the rooms whose name contains query, ignoring case. An
// empty query yields the whole catalog. The sequence reads the catalog
// when it is ranged over, so it can be ranged over again to see updates.
func (r *RoomRegistry) Filter(query string) iter.Seq[Room] {
	needle := strings.ToLower(query)
	return func(yield func(Room) bool) {
		for _, room := range r.Rooms() {
			if needle != "" && !strings.Contains(strings.ToLower(room.Name), needle) {
				continue
			}
			if !yield(room) {
				return
			}
		}
	}
}

// RecordIncoming bumps the unread count of a room that is not active.
// Unknown rooms and the active room are left alone.
func (r *RoomRegistry) RecordIncoming(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[roomID]
	if !ok || roomID == r.active {
		return
	}
	r.rooms[i].UnreadCount++
}

// Touch updates the preview line and activity label of a room
func (r *RoomRegistry) Touch(roomID, preview, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[roomID]; ok {
		r.rooms[i].LastMessagePreview = preview
		r.rooms[i].LastActivityLabel = label
	}
}

// CreateRoom appends a new, empty room to the catalog
func (r *RoomRegistry) CreateRoom(name, icon string) (Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Room{}, &RoomError{Op: "create", Err: ErrInvalidInput}
	}
	if icon == "" {
		icon = "#"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.ids.NewID()
	for _, taken := r.index[id]; taken; _, taken = r.index[id] {
		id = r.ids.NewID()
	}
	room := Room{ID: id, Name: name, Icon: icon}
	r.index[id] = len(r.rooms)
	r.rooms = append(r.rooms, room)
	return room, nil
}
