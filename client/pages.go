package client

import (
	"context"
	"strings"
	"sync"

	"points-exchange/models"
	"points-exchange/services"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LoginController wraps credential sign-in/sign-up with the user-facing
// message mapping. Invalid credentials get a specific message; the
// session state only changes on success.
type LoginController struct {
	Gateway *Gateway
	Toasts  *Toasts
}

func (l *LoginController) SignIn(ctx context.Context, email, password string) bool {
	if err := l.Gateway.SignIn(ctx, email, password); err != nil {
		if strings.Contains(err.Error(), "Invalid login credentials") {
			l.Toasts.Error("Invalid email or password. Please check your credentials or Sign Up.")
		} else {
			l.Toasts.Error(err.Error())
		}
		return false
	}
	l.Toasts.Success("Login successful!")
	return true
}

func (l *LoginController) SignUp(ctx context.Context, email, password string) bool {
	if err := l.Gateway.SignUp(ctx, email, password); err != nil {
		l.Toasts.Error(err.Error())
		return false
	}
	l.Toasts.Success("Account created successfully!")
	return true
}

// CompleteProfileController finishes onboarding: profile upsert plus the
// optional, best-effort referral link.
type CompleteProfileController struct {
	Gateway *Gateway
	Toasts  *Toasts
	Log     interface{ Errorf(string, ...interface{}) }
}

// Submit saves the profile fields and, when a code was entered, tries to
// link the referrer. Referral failure never blocks completion: the two
// known validation cases get their own message, anything else is logged
// and tolerated.
func (c *CompleteProfileController) Submit(ctx context.Context, fullName, country, avatarURL, referralCode string) error {
	upd := services.ProfileUpdate{
		FullName: &fullName,
		Country:  &country,
	}
	if avatarURL != "" {
		upd.AvatarURL = &avatarURL
	}

	if _, err := c.Gateway.UpsertProfile(ctx, upd); err != nil {
		c.Toasts.Error("Failed to update profile.")
		return err
	}

	if referralCode != "" {
		if err := c.Gateway.SetReferrer(ctx, referralCode); err != nil {
			switch {
			case strings.Contains(err.Error(), "Self-referral"):
				c.Toasts.Error("You can't refer yourself!")
			case strings.Contains(err.Error(), "Invalid"):
				c.Toasts.Error("Invalid referral code.")
			default:
				if c.Log != nil {
					c.Log.Errorf("referral error: %v", err)
				}
			}
		} else {
			c.Toasts.Success("Referral code applied successfully!")
		}
	}

	c.Toasts.Success("Profile completed! Welcome aboard.")
	return nil
}

// DashboardController shows the balance card and a short list of featured
// tasks, with the balance kept fresh by the change-notification stream.
type DashboardController struct {
	gateway *Gateway
	toasts  *Toasts

	mu       sync.Mutex
	profile  *models.Profile
	featured []models.Channel
	cancel   CancelFunc
	closed   bool
}

func NewDashboardController(gateway *Gateway, toasts *Toasts) *DashboardController {
	return &DashboardController{gateway: gateway, toasts: toasts}
}

func (d *DashboardController) Load(ctx context.Context) error {
	profile, err := d.gateway.Profile(ctx)
	if err != nil {
		d.toasts.Error("Failed to load dashboard.")
		return err
	}
	featured, err := d.gateway.EarnableChannels(ctx, 4)
	if err != nil {
		d.toasts.Error("Failed to load dashboard.")
		return err
	}

	d.mu.Lock()
	d.profile = profile
	d.featured = featured
	d.mu.Unlock()
	return nil
}

func (d *DashboardController) Subscribe(ctx context.Context) error {
	cancel, err := d.gateway.SubscribeProfile(ctx, func(p models.Profile) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			return
		}
		d.profile = &p
	})
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	return nil
}

func (d *DashboardController) Profile() *models.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profile
}

func (d *DashboardController) Featured() []models.Channel {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Channel, len(d.featured))
	copy(out, d.featured)
	return out
}

func (d *DashboardController) Close() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.closed = true
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ProfileController shows the profile card and recent ledger history.
type ProfileController struct {
	Gateway *Gateway

	mu           sync.Mutex
	profile      *models.Profile
	transactions []models.Transaction
}

func (p *ProfileController) Load(ctx context.Context) error {
	profile, err := p.Gateway.Profile(ctx)
	if err != nil {
		return err
	}
	txs, err := p.Gateway.Transactions(ctx, 10)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.profile = profile
	p.transactions = txs
	p.mu.Unlock()
	return nil
}

func (p *ProfileController) Profile() *models.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

func (p *ProfileController) Transactions() []models.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Transaction, len(p.transactions))
	copy(out, p.transactions)
	return out
}

// SignOut drops the session.
func (p *ProfileController) SignOut() {
	p.Gateway.SignOut()
}

var txTypeTitle = cases.Title(language.English)

// FormatTransactionType renders a ledger type for display:
// "follow_reward" → "Follow Reward".
func FormatTransactionType(t models.TransactionType) string {
	return txTypeTitle.String(strings.ReplaceAll(string(t), "_", " "))
}

// ReferralsController shows the user's code and referral earnings.
type ReferralsController struct {
	Gateway *Gateway

	mu      sync.Mutex
	profile *models.Profile
	stats   services.ReferralStats
}

func (r *ReferralsController) Load(ctx context.Context) error {
	profile, err := r.Gateway.Profile(ctx)
	if err != nil {
		return err
	}
	stats, err := r.Gateway.ReferralStats(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.profile = profile
	r.stats = *stats
	r.mu.Unlock()
	return nil
}

func (r *ReferralsController) Code() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profile == nil {
		return ""
	}
	return r.profile.ReferralCode
}

func (r *ReferralsController) Stats() services.ReferralStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
