package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"points-exchange/client"
	"points-exchange/models"
	"points-exchange/services"
	"points-exchange/utils"

	"github.com/joho/godotenv"
)

// Headless terminal front-end over the page controllers. One command per
// line; a background 1s ticker drives the countdown state the same way a
// browser interval would.
func main() {
	log := utils.InitLogger()
	_ = godotenv.Load()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5300"
	}

	stdin := bufio.NewScanner(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		if !stdin.Scan() {
			os.Exit(0)
		}
		return strings.TrimSpace(stdin.Text())
	}
	confirm := client.Confirm(func(q string) bool {
		answer := prompt(q + " [y/N] ")
		return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	})
	openLink := client.LinkOpener(func(url string) {
		fmt.Printf("  ↗ open in browser: %s\n", url)
	})

	gateway := client.NewGateway(baseURL)
	toasts := client.NewToasts()

	earn := client.NewEarnController(gateway, toasts, openLink)
	ads := client.NewAdsController(gateway, toasts, openLink, confirm)
	dashboard := client.NewDashboardController(gateway, toasts)
	addChannel := client.NewAddChannelController(gateway, toasts)
	myTasks := client.NewMyTasksController(gateway, toasts, confirm)
	login := &client.LoginController{Gateway: gateway, Toasts: toasts}
	completeProfile := &client.CompleteProfileController{Gateway: gateway, Toasts: toasts, Log: log}
	profilePage := &client.ProfileController{Gateway: gateway}
	referrals := &client.ReferralsController{Gateway: gateway}
	guard := &client.SessionGuard{Gateway: gateway}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				earn.Tick()
				ads.Tick(ctx)
			}
		}
	}()

	drainToasts := func() {
		for _, t := range toasts.Active() {
			fmt.Printf("  [%s] %s\n", t.Kind, t.Message)
		}
	}

	requireSession := func() bool {
		switch guard.Resolve(ctx) {
		case client.Unauthenticated:
			fmt.Println("Not signed in. Use `signin` or `signup` first.")
			return false
		case client.AuthenticatedIncomplete:
			fmt.Println("Profile incomplete. Use `complete` first.")
			return false
		}
		return true
	}

	fmt.Println("points-exchange client — type `help` for commands")

	dashboardLive := false
	earnLive := false
	for {
		line := prompt("> ")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Println(`commands:
  signup / signin / signout        account session
  complete                         finish profile setup
  dashboard                        balance and featured tasks
  earn                             list follow tasks
  follow <n>   verify <n>          open link / claim reward
  ads          watch <n>  closead  ad watching
  channels     addchannel          your channels / submit new
  toggle <n>   delete <n>          pause-resume / remove channel
  referrals    profile             stats / account page
  quit`)

		case "signup":
			email := prompt("email: ")
			password := prompt("password: ")
			login.SignUp(ctx, email, password)

		case "signin":
			email := prompt("email: ")
			password := prompt("password: ")
			login.SignIn(ctx, email, password)

		case "signout":
			gateway.SignOut()
			fmt.Println("signed out")

		case "complete":
			if !gateway.Authenticated() {
				fmt.Println("Not signed in.")
				break
			}
			name := prompt("full name: ")
			country := prompt("country: ")
			code := prompt("referral code (optional): ")
			_ = completeProfile.Submit(ctx, name, country, "", code)

		case "dashboard":
			if !requireSession() {
				break
			}
			if err := dashboard.Load(ctx); err != nil {
				break
			}
			if !dashboardLive {
				if err := dashboard.Subscribe(ctx); err != nil {
					log.Errorf("subscription failed: %v", err)
				} else {
					dashboardLive = true
				}
			}
			p := dashboard.Profile()
			fmt.Printf("balance: %.1f points\n", p.Points)
			for i, ch := range dashboard.Featured() {
				fmt.Printf("  %d. [%s] %s\n", i+1, ch.Platform, ch.Name)
			}

		case "earn":
			if !requireSession() {
				break
			}
			if err := earn.Load(ctx); err != nil {
				break
			}
			if !earnLive {
				if err := earn.Subscribe(ctx); err != nil {
					log.Errorf("subscription failed: %v", err)
				} else {
					earnLive = true
				}
			}
			fmt.Printf("balance: %.1f points\n", earn.Balance())
			for i, ch := range earn.Channels() {
				state := "follow"
				if left := earn.SecondsLeft(ch.ID); left > 0 {
					state = fmt.Sprintf("verifying in %ds", left)
				} else if earn.CanVerify(ch.ID) {
					state = "ready to verify"
				}
				fmt.Printf("  %d. [%s] %s — %s\n", i+1, ch.Platform, ch.Name, state)
			}

		case "follow":
			if ch, ok := pickChannel(earn.Channels(), fields); ok {
				earn.OpenFollowLink(ch.ID)
			}

		case "verify":
			if ch, ok := pickChannel(earn.Channels(), fields); ok {
				if !earn.CanVerify(ch.ID) {
					fmt.Printf("not ready, %ds left\n", earn.SecondsLeft(ch.ID))
					break
				}
				_ = earn.Verify(ctx, ch.ID)
			}

		case "ads":
			if !requireSession() {
				break
			}
			for i, link := range ads.Links() {
				fmt.Printf("  %d. %s\n", i+1, link)
			}
			if ads.Watching() >= 0 {
				fmt.Printf("watching slot %d, %ds left\n", ads.Watching()+1, ads.Countdown())
			}

		case "watch":
			if len(fields) < 2 {
				fmt.Println("usage: watch <n>")
				break
			}
			n, _ := strconv.Atoi(fields[1])
			ads.Watch(n - 1)
			fmt.Printf("countdown started: %ds\n", client.AdWatchSeconds)

		case "closead":
			if ads.CloseAd() {
				fmt.Println("ad closed, no points earned")
			}

		case "channels":
			if !requireSession() {
				break
			}
			if err := myTasks.Load(ctx); err != nil {
				break
			}
			for i, ch := range myTasks.Channels() {
				state := "active"
				if !ch.Active {
					state = "paused"
				}
				fmt.Printf("  %d. [%s] %s — %s, %d followers\n", i+1, ch.Platform, ch.Name, state, ch.CurrentFollowers)
			}

		case "addchannel":
			if !requireSession() {
				break
			}
			if err := addChannel.Load(ctx); err != nil {
				break
			}
			if !addChannel.CanSubmit() {
				fmt.Printf("balance %.1f is below the %.0f point minimum\n",
					addChannel.Balance(), services.MinBalanceToAddChannel)
				break
			}
			in := services.ChannelInput{
				Platform: prompt("platform (telegram/youtube/tiktok): "),
				Name:     prompt("name: "),
				URL:      prompt("url: "),
			}
			if raw := prompt("target followers (optional): "); raw != "" {
				if target, err := strconv.ParseInt(raw, 10, 64); err == nil {
					in.TargetFollowers = &target
				}
			}
			_, _ = addChannel.Submit(ctx, in)

		case "toggle":
			if ch, ok := pickChannel(myTasks.Channels(), fields); ok {
				_ = myTasks.Toggle(ctx, ch.ID)
			}

		case "delete":
			if ch, ok := pickChannel(myTasks.Channels(), fields); ok {
				_ = myTasks.Delete(ctx, ch.ID)
			}

		case "referrals":
			if !requireSession() {
				break
			}
			if err := referrals.Load(ctx); err != nil {
				break
			}
			stats := referrals.Stats()
			fmt.Printf("your code: %s\n", referrals.Code())
			fmt.Printf("referred users: %d, earned: %.1f points\n", stats.Count, stats.Earnings)

		case "profile":
			if !requireSession() {
				break
			}
			if err := profilePage.Load(ctx); err != nil {
				break
			}
			p := profilePage.Profile()
			fmt.Printf("%s — %.1f points\n", p.Email, p.Points)
			for _, tx := range profilePage.Transactions() {
				fmt.Printf("  %+6.1f  %s  %s\n", tx.Amount, client.FormatTransactionType(tx.Type), tx.Description)
			}

		case "quit", "exit":
			earn.Close()
			ads.Close()
			dashboard.Close()
			return

		default:
			fmt.Println("unknown command, type `help`")
		}

		drainToasts()
	}
}

// pickChannel resolves a 1-based list index from the command arguments.
func pickChannel(channels []models.Channel, fields []string) (models.Channel, bool) {
	if len(fields) < 2 {
		fmt.Printf("usage: %s <n>\n", fields[0])
		return models.Channel{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(channels) {
		fmt.Println("no such entry, run the list command first")
		return models.Channel{}, false
	}
	return channels[n-1], true
}
