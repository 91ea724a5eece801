package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfit/internal/models"
)

func TestFriendRequestFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	env.addUser(t, "ben", models.RoleStudent, "")
	social := env.socialService()

	require.NoError(t, social.SendFriendRequest(ctx, "amy", "ben"))
	assert.ErrorIs(t, social.SendFriendRequest(ctx, "amy", "ben"), ErrRequestPending)
	assert.ErrorIs(t, social.SendFriendRequest(ctx, "amy", "amy"), ErrSelfFriend)

	pending, err := social.PendingRequests("ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy"}, pending)

	require.NoError(t, social.AcceptFriendRequest(ctx, "ben", "amy"))

	users := env.reload(t)
	amy, err := users.Get("amy")
	require.NoError(t, err)
	ben, err := users.Get("ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, amy.Friends)
	assert.Equal(t, []string{"amy"}, ben.Friends)
	assert.Empty(t, ben.FriendRequests)

	assert.ErrorIs(t, social.SendFriendRequest(ctx, "ben", "amy"), ErrAlreadyFriends)

	friends, err := social.Friends("amy")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "ben", friends[0].Username)
	assert.Equal(t, "Novice", friends[0].Level)
}

func TestCrossedFriendRequestsBecomeFriends(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	env.addUser(t, "ben", models.RoleStudent, "")
	social := env.socialService()

	require.NoError(t, social.SendFriendRequest(ctx, "amy", "ben"))
	require.NoError(t, social.SendFriendRequest(ctx, "ben", "amy"))

	assert.True(t, env.get(t, "amy").HasFriend("ben"))
	assert.True(t, env.get(t, "ben").HasFriend("amy"))
	assert.Empty(t, env.get(t, "amy").FriendRequests)
	assert.Empty(t, env.get(t, "ben").FriendRequests)
}

func TestDeclineAndRemoveFriend(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	env.addUser(t, "ben", models.RoleStudent, "")
	social := env.socialService()

	require.NoError(t, social.SendFriendRequest(ctx, "amy", "ben"))
	require.NoError(t, social.DeclineFriendRequest(ctx, "ben", "amy"))
	assert.ErrorIs(t, social.AcceptFriendRequest(ctx, "ben", "amy"), ErrNoFriendRequest)

	require.NoError(t, social.SendFriendRequest(ctx, "amy", "ben"))
	require.NoError(t, social.AcceptFriendRequest(ctx, "ben", "amy"))
	require.NoError(t, social.RemoveFriend(ctx, "amy", "ben"))

	assert.Empty(t, env.get(t, "amy").Friends)
	assert.Empty(t, env.get(t, "ben").Friends)
	assert.ErrorIs(t, social.RemoveFriend(ctx, "amy", "ben"), ErrNotFriends)
}

func TestFriendRequestToUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")

	err := env.socialService().SendFriendRequest(context.Background(), "amy", "ghost")
	assert.Error(t, err)
	assert.Empty(t, env.get(t, "amy").FriendRequests)
}

func TestFifthFriendEarnsBadge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	social := env.socialService()

	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("friend%d", i)
		env.addUser(t, name, models.RoleStudent, "")
		require.NoError(t, social.SendFriendRequest(ctx, name, "amy"))
		require.NoError(t, social.AcceptFriendRequest(ctx, "amy", name))
	}

	amy := env.get(t, "amy")
	assert.Len(t, amy.Friends, 5)
	assert.True(t, amy.HasBadge("friends_5", "Social Butterfly"))
	assert.Equal(t, 20, amy.TotalPoints)
	assert.False(t, env.get(t, "friend1").HasBadge("friends_5", ""))
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	env.addUser(t, "ben", models.RoleStudent, "")
	env.addUser(t, "cat", models.RoleStudent, "")
	social := env.socialService()

	require.NoError(t, social.CreateGroup(ctx, "amy", "Runners"))
	assert.ErrorIs(t, social.CreateGroup(ctx, "ben", "Runners"), ErrGroupExists)

	assert.ErrorIs(t, social.InviteToGroup(ctx, "ben", "Runners", "cat"), ErrNotGroupMember)
	require.NoError(t, social.InviteToGroup(ctx, "amy", "Runners", "ben"))
	assert.ErrorIs(t, social.InviteToGroup(ctx, "amy", "Runners", "ben"), ErrInvitePending)
	require.NoError(t, social.InviteToGroup(ctx, "amy", "Runners", "cat"))

	require.NoError(t, social.AcceptGroupInvite(ctx, "ben", "Runners"))
	require.NoError(t, social.DeclineGroupInvite(ctx, "cat", "Runners"))
	assert.ErrorIs(t, social.AcceptGroupInvite(ctx, "cat", "Runners"), ErrNoGroupInvite)
	assert.ErrorIs(t, social.InviteToGroup(ctx, "amy", "Runners", "ben"), ErrAlreadyInGroup)

	members, err := social.GroupMembers("Runners")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "ben"}, members)

	require.NoError(t, social.LeaveGroup(ctx, "amy", "Runners"))
	require.NoError(t, social.LeaveGroup(ctx, "ben", "Runners"))
	assert.ErrorIs(t, social.LeaveGroup(ctx, "ben", "Runners"), ErrNotGroupMember)

	_, err = social.GroupMembers("Runners")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	require.NoError(t, social.CreateGroup(ctx, "cat", "Runners"))
}

func TestCreateGroupValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "amy", models.RoleStudent, "")
	social := env.socialService()

	assert.Error(t, social.CreateGroup(context.Background(), "amy", "  "))
	long := fmt.Sprintf("%051d", 0)
	assert.ErrorIs(t, social.CreateGroup(context.Background(), "amy", long), ErrGroupNameTooLong)
}
