package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
	"schoolfit/internal/validation"
)

var (
	ErrSelfFriend       = errors.New("you cannot add yourself as a friend")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrRequestPending   = errors.New("friend request already sent")
	ErrNoFriendRequest  = errors.New("no friend request from this user")
	ErrNotFriends       = errors.New("not friends")
	ErrGroupExists      = errors.New("group already exists")
	ErrGroupNotFound    = errors.New("group not found")
	ErrNotGroupMember   = errors.New("not a member of this group")
	ErrAlreadyInGroup   = errors.New("already a member of this group")
	ErrInvitePending    = errors.New("invitation already sent")
	ErrNoGroupInvite    = errors.New("no invitation to this group")
	ErrGroupNameTooLong = errors.New("group name is too long")
)

const maxGroupNameLength = 50

// FriendView is a friend as shown in a friend list
type FriendView struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	House       string `json:"house"`
	TotalPoints int    `json:"total_points"`
	Level       string `json:"level"`
}

// SocialService manages friends and groups. Every change touching two users
// is written in one save.
type SocialService struct {
	users   *repository.UserRepository
	ledger  *gamification.Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSocialService creates a new social service
func NewSocialService(users *repository.UserRepository, ledger *gamification.Ledger, m *metrics.Metrics) *SocialService {
	return &SocialService{users: users, ledger: ledger, metrics: m, now: time.Now}
}

// SendFriendRequest asks to username to be friends. If they already asked us,
// the request is accepted instead.
func (s *SocialService) SendFriendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return ErrSelfFriend
	}
	accepted := false
	awards := pendingAwards{}
	err := s.users.Transact(ctx, func(tx *repository.UserTx) error {
		sender, err := tx.Get(from)
		if err != nil {
			return err
		}
		target, err := tx.Get(to)
		if err != nil {
			return err
		}
		if sender.HasFriend(to) {
			return ErrAlreadyFriends
		}
		if containsString(sender.FriendRequests, to) {
			accepted = true
			s.befriend(awards, sender, from, target, to)
			return nil
		}
		if containsString(target.FriendRequests, from) {
			return ErrRequestPending
		}
		target.FriendRequests = append(target.FriendRequests, from)
		return nil
	})
	if err != nil {
		return err
	}
	awards.publish(s.metrics)
	if accepted {
		log.Printf("Friend request crossed, now friends: %s <-> %s", from, to)
	} else {
		log.Printf("Friend request sent: %s -> %s", from, to)
	}
	return nil
}

// AcceptFriendRequest accepts the pending request from `from`
func (s *SocialService) AcceptFriendRequest(ctx context.Context, username, from string) error {
	awards := pendingAwards{}
	err := s.users.Transact(ctx, func(tx *repository.UserTx) error {
		user, err := tx.Get(username)
		if err != nil {
			return err
		}
		if !containsString(user.FriendRequests, from) {
			return ErrNoFriendRequest
		}
		requester, err := tx.Get(from)
		if err != nil {
			return err
		}
		s.befriend(awards, user, username, requester, from)
		return nil
	})
	if err != nil {
		return err
	}
	awards.publish(s.metrics)
	log.Printf("Friend request accepted: %s <-> %s", username, from)
	return nil
}

// DeclineFriendRequest drops the pending request from `from`
func (s *SocialService) DeclineFriendRequest(ctx context.Context, username, from string) error {
	return s.users.Update(ctx, username, func(record *models.UserRecord) error {
		if !containsString(record.FriendRequests, from) {
			return ErrNoFriendRequest
		}
		record.FriendRequests = removeString(record.FriendRequests, from)
		return nil
	})
}

// RemoveFriend ends a friendship on both sides
func (s *SocialService) RemoveFriend(ctx context.Context, username, friend string) error {
	return s.users.Transact(ctx, func(tx *repository.UserTx) error {
		user, err := tx.Get(username)
		if err != nil {
			return err
		}
		if !user.HasFriend(friend) {
			return ErrNotFriends
		}
		other, err := tx.Get(friend)
		if err != nil {
			return err
		}
		user.Friends = removeString(user.Friends, friend)
		other.Friends = removeString(other.Friends, username)
		return nil
	})
}

// befriend links both records, clears requests in either direction and runs
// the ledger for both users
func (s *SocialService) befriend(awards pendingAwards, a *models.UserRecord, aName string, b *models.UserRecord, bName string) {
	a.FriendRequests = removeString(a.FriendRequests, bName)
	b.FriendRequests = removeString(b.FriendRequests, aName)
	if !a.HasFriend(bName) {
		a.Friends = append(a.Friends, bName)
	}
	if !b.HasFriend(aName) {
		b.Friends = append(b.Friends, aName)
	}

	now := s.now()
	awards[aName] = s.ledger.Evaluate(a, now)
	awards[bName] = s.ledger.Evaluate(b, now)
}

// Friends lists the user's friends
func (s *SocialService) Friends(username string) ([]FriendView, error) {
	record, err := s.users.Get(username)
	if err != nil {
		return nil, err
	}
	out := make([]FriendView, 0, len(record.Friends))
	for _, name := range record.Friends {
		friend, err := s.users.Get(name)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, FriendView{
			Username:    name,
			Name:        friend.Name,
			House:       friend.HouseName(),
			TotalPoints: friend.TotalPoints,
			Level:       gamification.LevelFor(friend.TotalPoints).Name,
		})
	}
	return out, nil
}

// PendingRequests lists usernames waiting for the user to answer
func (s *SocialService) PendingRequests(username string) ([]string, error) {
	record, err := s.users.Get(username)
	if err != nil {
		return nil, err
	}
	return record.FriendRequests, nil
}

// CreateGroup creates a group with the user as its first member. Group names
// are unique across all users.
func (s *SocialService) CreateGroup(ctx context.Context, username, group string) error {
	group = strings.TrimSpace(group)
	if err := validation.ValidateRequired("group", group); err != nil {
		return err
	}
	if len(group) > maxGroupNameLength {
		return ErrGroupNameTooLong
	}

	var award gamification.Award
	err := s.users.Transact(ctx, func(tx *repository.UserTx) error {
		if groupExists(tx.Each, group) {
			return ErrGroupExists
		}
		record, err := tx.Get(username)
		if err != nil {
			return err
		}
		record.Groups = append(record.Groups, group)
		award = s.ledger.Evaluate(record, s.now())
		return nil
	})
	if err != nil {
		return err
	}
	recordAward(s.metrics, username, award)
	log.Printf("Group created: %s by %s", group, username)
	return nil
}

// InviteToGroup invites another user to a group the inviter belongs to
func (s *SocialService) InviteToGroup(ctx context.Context, username, group, invitee string) error {
	return s.users.Transact(ctx, func(tx *repository.UserTx) error {
		inviter, err := tx.Get(username)
		if err != nil {
			return err
		}
		if !inviter.InGroup(group) {
			return ErrNotGroupMember
		}
		target, err := tx.Get(invitee)
		if err != nil {
			return err
		}
		if target.InGroup(group) {
			return ErrAlreadyInGroup
		}
		for _, invite := range target.GroupInvites {
			if invite.Group == group {
				return ErrInvitePending
			}
		}
		target.GroupInvites = append(target.GroupInvites, models.GroupInvite{
			Group: group,
			From:  username,
			Date:  today(s.now),
		})
		return nil
	})
}

// AcceptGroupInvite joins the group and drops the invitation
func (s *SocialService) AcceptGroupInvite(ctx context.Context, username, group string) error {
	var award gamification.Award
	err := s.users.Transact(ctx, func(tx *repository.UserTx) error {
		record, err := tx.Get(username)
		if err != nil {
			return err
		}
		if !removeInvite(record, group) {
			return ErrNoGroupInvite
		}
		if !groupExists(tx.Each, group) {
			return ErrGroupNotFound
		}
		if !record.InGroup(group) {
			record.Groups = append(record.Groups, group)
		}
		award = s.ledger.Evaluate(record, s.now())
		return nil
	})
	if err != nil {
		return err
	}
	recordAward(s.metrics, username, award)
	return nil
}

// DeclineGroupInvite drops the invitation
func (s *SocialService) DeclineGroupInvite(ctx context.Context, username, group string) error {
	return s.users.Update(ctx, username, func(record *models.UserRecord) error {
		if !removeInvite(record, group) {
			return ErrNoGroupInvite
		}
		return nil
	})
}

// LeaveGroup removes the user from a group. The group disappears with its last member.
func (s *SocialService) LeaveGroup(ctx context.Context, username, group string) error {
	return s.users.Update(ctx, username, func(record *models.UserRecord) error {
		if !record.InGroup(group) {
			return ErrNotGroupMember
		}
		record.Groups = removeString(record.Groups, group)
		return nil
	})
}

// GroupMembers lists the usernames in a group, sorted
func (s *SocialService) GroupMembers(group string) ([]string, error) {
	var members []string
	s.users.Each(func(username string, record *models.UserRecord) bool {
		if record.InGroup(group) {
			members = append(members, username)
		}
		return true
	})
	if len(members) == 0 {
		return nil, ErrGroupNotFound
	}
	return members, nil
}

// pendingAwards collects awards made inside a transaction so they are only
// published once it commits
type pendingAwards map[string]gamification.Award

func (p pendingAwards) publish(m *metrics.Metrics) {
	for username, award := range p {
		recordAward(m, username, award)
	}
}

func groupExists(each eachFunc, group string) bool {
	found := false
	each(func(_ string, record *models.UserRecord) bool {
		found = record.InGroup(group)
		return !found
	})
	return found
}

func removeInvite(record *models.UserRecord, group string) bool {
	for i, invite := range record.GroupInvites {
		if invite.Group == group {
			record.GroupInvites = append(record.GroupInvites[:i], record.GroupInvites[i+1:]...)
			return true
		}
	}
	return false
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func removeString(items []string, value string) []string {
	out := items[:0]
	for _, item := range items {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
