package model

// Follow is a directed edge: Follower sees Followed's posts in their feed.
type Follow struct {
	FollowerID int64 `json:"follower_id"`
	FollowedID int64 `json:"followed_id"`
}

type FollowStats struct {
	Followers int `json:"followers"`
	Followed  int `json:"followed"`
}
