package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"chat-rooms/domain"
	"chat-rooms/observability"
	"chat-rooms/services"
	"chat-rooms/session"
)

// Console is the line-oriented front end of the engine. One command per
// line, anything that does not start with '/' is posted to the current
// room.
type Console struct {
	service    services.IChatService
	monitoring *observability.MonitoringManager
	log        *slog.Logger

	current *session.Session
}

func NewConsole(service services.IChatService, monitoring *observability.MonitoringManager, log *slog.Logger) *Console {
	return &Console{service: service, monitoring: monitoring, log: log}
}

// Run reads stdin until EOF, "/exit" or context cancellation. Stdin is
// pumped from a goroutine so a signal interrupts a blocked read.
func (c *Console) Run(ctx context.Context) error {
	color.Green.Println("chat-rooms console ready, type /help for commands")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "/exit" {
				return nil
			}
			if err := c.dispatch(ctx, line); err != nil {
				color.Red.Println(err.Error())
			}
		}
	}
}

func (c *Console) dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return c.post(line)
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		c.help()
		return nil
	case "/create":
		return c.create(args)
	case "/rooms":
		c.rooms()
		return nil
	case "/join":
		return c.join(args)
	case "/leave":
		return c.leave()
	case "/login":
		return c.login(args)
	case "/logout":
		return c.logout()
	case "/users":
		return c.users()
	case "/history":
		return c.history()
	case "/archive":
		return c.archive(args)
	case "/search":
		return c.search(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/search")))
	case "/msg":
		return c.private(args)
	case "/stats":
		c.stats()
		return nil
	default:
		return fmt.Errorf("unknown command %q, try /help", cmd)
	}
}

func (c *Console) help() {
	fmt.Println(`Commands:
  /create <id> <name...>   create a room
  /rooms                   list rooms
  /join <room> <username>  join a room as a new user
  /leave                   leave the room, session kept for /login
  /login                   resume the suspended session
  /logout                  leave permanently
  /users                   active users in the current room
  /history                 recent messages of the current room
  /archive [cursor]        archived messages, newest first
  /search <terms> [--room id] [--limit n]
  /msg <username> <text...>  private message
  /stats                   engine counters
  /exit                    quit
Anything else is posted to the current room.`)
}

func (c *Console) create(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: /create <id> <name...>")
	}
	room, err := c.service.CreateRoom(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	color.Green.Printf("Room %q created\n", room.ID())
	return nil
}

func (c *Console) rooms() {
	table := newTable([]string{"ID", "Name", "Users", "Messages", "Created"})
	for _, room := range c.service.ListRooms() {
		table.Append([]string{
			room.ID(),
			room.Name(),
			fmt.Sprintf("%d", room.UserCount()),
			fmt.Sprintf("%d", room.MessageCount()),
			room.CreatedAt().Format("15:04:05"),
		})
	}
	table.Render()
}

func (c *Console) join(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: /join <room> <username>")
	}
	s, err := c.service.JoinRoom(args[1], args[0])
	if err != nil {
		return err
	}
	c.current = s
	color.Green.Printf("Joined %q as %s (id %s)\n", s.RoomID(), s.User().Username, s.User().ID)
	return nil
}

func (c *Console) leave() error {
	if c.current == nil {
		return fmt.Errorf("no current session, /join first")
	}
	return c.service.LeaveRoom(c.current.User().ID)
}

func (c *Console) login(args []string) error {
	if c.current == nil && len(args) != 1 {
		return fmt.Errorf("usage: /login <user-id>")
	}
	userID := ""
	if c.current != nil {
		userID = c.current.User().ID
	}
	if len(args) == 1 {
		userID = args[0]
	}
	s, err := c.service.Login(userID)
	if err != nil {
		return err
	}
	c.current = s
	color.Green.Printf("Back in %q as %s\n", s.RoomID(), s.User().Username)
	return nil
}

func (c *Console) logout() error {
	if c.current == nil {
		return fmt.Errorf("no current session")
	}
	err := c.service.Logout(c.current.User().ID)
	c.current = nil
	return err
}

func (c *Console) post(content string) error {
	if c.current == nil {
		return fmt.Errorf("no current session, /join first")
	}
	return c.service.PostMessage(c.current.User().ID, content)
}

func (c *Console) private(args []string) error {
	if c.current == nil {
		return fmt.Errorf("no current session, /join first")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: /msg <username> <text...>")
	}
	_, err := c.service.SendPrivateMessage(
		c.current.User().ID, args[0], strings.Join(args[1:], " "))
	return err
}

func (c *Console) users() error {
	room, err := c.currentRoom()
	if err != nil {
		return err
	}
	table := newTable([]string{"Username", "ID", "Joined"})
	for _, user := range room.ActiveUsers() {
		table.Append([]string{user.Username, user.ID, user.JoinedAt.Format("15:04:05")})
	}
	table.Render()
	return nil
}

func (c *Console) history() error {
	if c.current == nil {
		return fmt.Errorf("no current session, /join first")
	}
	messages, err := c.service.RoomHistory(c.current.RoomID())
	if err != nil {
		return err
	}
	for _, msg := range messages {
		fmt.Println(msg.Formatted())
	}
	return nil
}

func (c *Console) archive(args []string) error {
	if c.current == nil {
		return fmt.Errorf("no current session, /join first")
	}
	var cursor *string
	if len(args) == 1 {
		cursor = &args[0]
	}
	messages, next, err := c.service.ArchivedHistory(c.current.RoomID(), cursor)
	if err != nil {
		return err
	}
	table := newTable([]string{"At", "Sender", "Content"})
	for _, msg := range messages {
		table.Append([]string{msg.At.Format("15:04:05"), msg.SenderUsername, msg.Content})
	}
	table.Render()
	if next != nil && *next != "" {
		fmt.Printf("next cursor: %s\n", *next)
	}
	return nil
}

func (c *Console) search(ctx context.Context, rawQuery string) error {
	hits, err := c.service.SearchMessages(ctx, rawQuery)
	if err != nil {
		return err
	}
	table := newTable([]string{"At", "Room", "Sender", "Content"})
	for _, hit := range hits {
		table.Append([]string{hit.At.Format("15:04:05"), hit.RoomID, hit.Sender, hit.Content})
	}
	table.Render()
	return nil
}

func (c *Console) stats() {
	stats := c.monitoring.GetLatest()
	table := newTable([]string{"Counter", "Value"})
	table.Append([]string{"Messages posted", fmt.Sprintf("%d", stats.MessagesPosted)})
	table.Append([]string{"Private messages", fmt.Sprintf("%d", stats.PrivateMessages)})
	table.Append([]string{"Events delivered", fmt.Sprintf("%d", stats.EventsDelivered)})
	table.Append([]string{"Notify failures", fmt.Sprintf("%d", stats.NotifyFailures)})
	table.Append([]string{"Active sessions", fmt.Sprintf("%d", stats.ActiveSessions)})
	table.Append([]string{"Alloc (MB)", fmt.Sprintf("%d", stats.AllocMemMb)})
	table.Append([]string{"GC cycles", fmt.Sprintf("%d", stats.NumGC)})
	table.Render()
}

func (c *Console) currentRoom() (*domain.Room, error) {
	if c.current == nil {
		return nil, fmt.Errorf("no current session, /join first")
	}
	for _, room := range c.service.ListRooms() {
		if room.ID() == c.current.RoomID() {
			return room, nil
		}
	}
	return nil, fmt.Errorf("room %q is gone", c.current.RoomID())
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
