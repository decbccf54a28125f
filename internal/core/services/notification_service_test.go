package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/platform/clock"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockDeduper struct {
	mock.Mock
}

func (m *MockDeduper) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeduper) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// brokenInbox refuses to store notifications.
type brokenInbox struct {
	*memory.Store
}

func (brokenInbox) SaveNotification(context.Context, domain.Notification) error {
	return apperrors.NewAppError(500, "inbox unavailable", nil)
}

func reminderNote(key string) dto.NotifyRequest {
	return dto.NotifyRequest{
		UserID:            testUser,
		Title:             "Reminder: rent",
		Message:           "rent due",
		Kind:              domain.NotificationReminder,
		RelatedEntityType: domain.EntityReminder,
		RelatedEntityID:   "rem-1",
		DedupeKey:         key,
	}
}

func TestNotify_StoresAndDispatches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == testUser && n.Priority == domain.PriorityMedium
	})).Return(nil).Once()

	svc := services.NewNotificationService(store, store,
		services.WithDispatcher(dispatcher),
		services.WithNotificationBase(services.WithClock(clock.NewFake(startTime))))

	delivered, err := svc.Notify(ctx, reminderNote(""))
	require.NoError(t, err)
	assert.True(t, delivered)
	dispatcher.AssertExpectations(t)

	inbox, err := svc.ListNotifications(ctx, testUser, dto.ListNotificationsParams{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, startTime, inbox[0].CreatedAt)
	assert.Nil(t, inbox[0].DedupeKey)
}

func TestNotify_DedupeWindow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clk := clock.NewFake(startTime)
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Times(3)

	svc := services.NewNotificationService(store, store,
		services.WithDispatcher(dispatcher),
		services.WithDedupeWindow(time.Hour),
		services.WithNotificationBase(services.WithClock(clk)))

	first, err := svc.Notify(ctx, reminderNote("reminder:rem-1:1"))
	require.NoError(t, err)
	assert.True(t, first)

	clk.Advance(59 * time.Minute)
	second, err := svc.Notify(ctx, reminderNote("reminder:rem-1:1"))
	require.NoError(t, err)
	assert.False(t, second)

	other, err := svc.Notify(ctx, reminderNote("reminder:rem-1:2"))
	require.NoError(t, err)
	assert.True(t, other, "a different occurrence is not a duplicate")

	clk.Advance(time.Minute)
	third, err := svc.Notify(ctx, reminderNote("reminder:rem-1:1"))
	require.NoError(t, err)
	assert.True(t, third, "the key is free again once the window passed")
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 3)
}

func TestNotify_PreferencesGate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := new(MockDispatcher)
	svc := services.NewNotificationService(store, store, services.WithDispatcher(dispatcher))

	_, err := svc.UpdatePreferences(ctx, testUser, dto.UpdatePreferencesRequest{RemindersEnabled: ptr(false)})
	require.NoError(t, err)

	delivered, err := svc.Notify(ctx, reminderNote(""))
	require.NoError(t, err)
	assert.False(t, delivered)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)

	prefs, err := svc.GetPreferences(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, prefs.RemindersEnabled)
	assert.True(t, prefs.RecurringEnabled)
}

func TestNotify_DispatchErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("push gateway down"))
	svc := services.NewNotificationService(store, store, services.WithDispatcher(dispatcher))

	delivered, err := svc.Notify(ctx, reminderNote(""))
	require.NoError(t, err)
	assert.True(t, delivered)

	inbox, err := store.ListNotifications(ctx, testUser, false, 0)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestNotify_ReleasesKeyWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	deduper := new(MockDeduper)
	deduper.On("Claim", mock.Anything, "k", services.DefaultDedupeWindow).Return(true, nil).Once()
	deduper.On("Release", mock.Anything, "k").Return(nil).Once()
	dispatcher := new(MockDispatcher)

	svc := services.NewNotificationService(brokenInbox{store}, store,
		services.WithDeduper(deduper),
		services.WithDispatcher(dispatcher))

	delivered, err := svc.Notify(ctx, reminderNote("k"))
	assert.Error(t, err)
	assert.False(t, delivered)
	deduper.AssertExpectations(t)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewNotificationService(store, store)

	_, err := svc.Notify(ctx, reminderNote(""))
	require.NoError(t, err)
	inbox, err := svc.ListNotifications(ctx, testUser, dto.ListNotificationsParams{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	assert.ErrorIs(t, svc.MarkRead(ctx, otherUser, inbox[0].NotificationID), apperrors.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, testUser, inbox[0].NotificationID))

	unread, err := svc.ListNotifications(ctx, testUser, dto.ListNotificationsParams{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)
}
