package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/zucitech/portal-client/internal/entity"
)

// Center is the in-memory notification feed behind the header bell.
// Nothing here is persisted or fetched; the feed lives and dies with
// the session process.
type Center struct {
	mu     sync.Mutex
	nextID int64
	items  []entity.Notification
}

func NewCenter(seed []entity.Notification) *Center {
	c := &Center{
		nextID: 1,
		items:  slices.Clone(seed),
	}

	for _, n := range c.items {
		if n.ID >= c.nextID {
			c.nextID = n.ID + 1
		}
	}

	return c
}

// DefaultSeed mirrors the stock portal feed.
func DefaultSeed() []entity.Notification {
	now := time.Now()

	return []entity.Notification{
		{
			ID:      1,
			Title:   "New Training Assigned: POSH Compliance",
			Message: "You have been assigned a new training module",
			Time:    now.Add(-2 * time.Hour),
			Type:    entity.NotificationInfo,
		},
		{
			ID:      2,
			Title:   "Training Completion Reminder",
			Message: "Please complete your pending training modules",
			Time:    now.Add(-24 * time.Hour),
			Type:    entity.NotificationWarning,
		},
		{
			ID:      3,
			Title:   "System Maintenance Scheduled",
			Message: "System will be down for maintenance on Sunday",
			Time:    now.Add(-72 * time.Hour),
			Type:    entity.NotificationInfo,
		},
	}
}

// Add prepends a new unread notification and returns it.
func (c *Center) Add(title, message string, typ entity.NotificationType) entity.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := entity.Notification{
		ID:      c.nextID,
		Title:   title,
		Message: message,
		Time:    time.Now(),
		Type:    typ,
	}
	c.nextID++

	c.items = append([]entity.Notification{n}, c.items...)

	return n
}

// MarkRead marks one notification read; false when the id is unknown.
func (c *Center) MarkRead(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsRead = true
			return true
		}
	}

	return false
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		c.items[i].IsRead = true
	}
}

func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0

	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}

	return count
}

// List returns a copy of the feed, newest first.
func (c *Center) List() []entity.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}
