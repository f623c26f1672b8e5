package bot

import (
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userRegistry tracks unique users for the process lifetime. It feeds the
// operator notification side-channel only; it is not access control and it
// resets on restart.
type userRegistry struct {
	mu    sync.Mutex
	seen  map[int64]bool
	count int
}

func newUserRegistry() *userRegistry {
	return &userRegistry{seen: make(map[int64]bool)}
}

// add records a user and reports whether they are new, plus the running
// unique-user count.
func (r *userRegistry) add(userID int64) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[userID] {
		return false, r.count
	}
	r.seen[userID] = true
	r.count++
	return true, r.count
}

func (b *Bot) handleStart(log *slog.Logger, msg *tgbotapi.Message) {
	user := msg.From
	if user == nil {
		return
	}

	if isNew, total := b.users.add(user.ID); isNew {
		log.Info("new user", "user_id", user.ID, "username", user.UserName, "total_users", total)
		b.notifyOwner(user, total)
	}

	welcome := fmt.Sprintf(
		"Hello, %s!\nI can help you download videos from various platforms.\nSimply send me a link to get started.",
		user.FirstName,
	)
	b.reply(msg.Chat.ID, welcome)
}

// notifyOwner tells the configured operator about a first-time user.
// Failures are logged only.
func (b *Bot) notifyOwner(user *tgbotapi.User, total int) {
	if b.env.OwnerID == 0 {
		return
	}

	username := user.UserName
	if username == "" {
		username = "N/A"
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}

	text := fmt.Sprintf(
		"New user interacted\nID: %d\nUsername: @%s\nName: %s\nTotal unique users: %d",
		user.ID, username, name, total,
	)
	if _, err := b.tg.Send(tgbotapi.NewMessage(b.env.OwnerID, text)); err != nil {
		slog.Error("failed to notify owner about new user", "owner_id", b.env.OwnerID, "error", err)
	}
}
