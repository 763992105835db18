package delivery_http

import (
	"net/url"
	"strconv"
	"time"

	"myblog/internal/model"
)

const (
	profileAvatarSize = 128
	postAvatarSize    = 36
)

// View is the body of every page response.
type View struct {
	Title       string            `json:"title"`
	CurrentUser *UserView         `json:"current_user,omitempty"`
	Flashes     []string          `json:"flashes,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	Data        any               `json:"data,omitempty"`
}

type UserView struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	AboutMe     string     `json:"about_me,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
	MemberSince time.Time  `json:"member_since"`
	Avatar      string     `json:"avatar"`
}

func newUserView(u *model.User, avatarSize int) *UserView {
	if u == nil {
		return nil
	}
	v := &UserView{
		ID:          u.ID,
		Username:    u.Username,
		LastSeen:    u.LastSeen,
		MemberSince: u.CreatedAt,
		Avatar:      u.AvatarURL(avatarSize),
	}
	if u.AboutMe != nil {
		v.AboutMe = *u.AboutMe
	}
	return v
}

func newUserViews(users []*model.User) []*UserView {
	out := make([]*UserView, 0, len(users))
	for _, u := range users {
		out = append(out, newUserView(u, postAvatarSize))
	}
	return out
}

type PostView struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Author    *UserView `json:"author,omitempty"`
}

type PageView struct {
	Items   []*PostView `json:"items"`
	Page    int         `json:"page"`
	Total   int         `json:"total"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
	NextURL string      `json:"next_url,omitempty"`
	PrevURL string      `json:"prev_url,omitempty"`
}

// newPageView converts a page of posts; base is the path the navigation
// links point back to.
func newPageView(p *model.Page[*model.PostDetailed], base string) *PageView {
	v := &PageView{
		Items:   make([]*PostView, 0, len(p.Items)),
		Page:    p.Number,
		Total:   p.Total,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}
	for _, item := range p.Items {
		if item == nil || item.Post == nil {
			continue
		}
		v.Items = append(v.Items, &PostView{
			ID:        item.Post.ID,
			Body:      item.Post.Body,
			Timestamp: item.Post.CreatedAt,
			Author:    newUserView(item.Author, postAvatarSize),
		})
	}
	if p.HasNext {
		v.NextURL = pageURL(base, p.NextNum)
	}
	if p.HasPrev {
		v.PrevURL = pageURL(base, p.PrevNum)
	}
	return v
}

func pageURL(base string, page int) string {
	return base + "?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
}

type FeedData struct {
	Form  any       `json:"form,omitempty"`
	Posts *PageView `json:"posts"`
}

type ProfileData struct {
	User        *UserView `json:"user"`
	IsSelf      bool      `json:"is_self"`
	IsFollowing bool      `json:"is_following"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	Posts       *PageView `json:"posts"`
}

type FollowListData struct {
	User  *UserView   `json:"user"`
	Users []*UserView `json:"users"`
}

type FormData struct {
	Form any `json:"form,omitempty"`
}
