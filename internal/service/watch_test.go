package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/testutil"
)

type watchFixture struct {
	svc    *WatchService
	repos  *repository.Repositories
	user   *model.User
	lacorn *model.Lacorn
	ep     *model.Episode
}

func newWatchFixture(t *testing.T) *watchFixture {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	user := &model.User{
		Username:     "somsri",
		Email:        "somsri@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		BirthDate:    time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, repos.User.Create(user))

	lacorn := &model.Lacorn{Title: "天才枪手", EpisodeDuration: 2700}
	assert.NoError(t, repos.Lacorn.Create(lacorn))

	ep := &model.Episode{
		LacornID:      lacorn.ID,
		SeasonNumber:  1,
		EpisodeNumber: 1,
		Title:         "第一集",
		Duration:      1000,
		VideoURL:      "https://cdn.example.com/ep1.mp4",
	}
	assert.NoError(t, repos.Episode.Create(ep))

	return &watchFixture{
		svc:    NewWatchService(repos.History, repos.Lacorn, repos.Episode, repos.User),
		repos:  repos,
		user:   user,
		lacorn: lacorn,
		ep:     ep,
	}
}

func TestRecordProgressRequiresLogin(t *testing.T) {
	f := newWatchFixture(t)

	_, err := f.svc.RecordProgress(0, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 100})
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)
}

func TestRecordProgressRequiresEpisode(t *testing.T) {
	f := newWatchFixture(t)

	_, err := f.svc.RecordProgress(f.user.ID, ProgressInput{CurrentTime: 100})
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestRecordProgressSingleRow(t *testing.T) {
	f := newWatchFixture(t)

	// 多次上报只保留一条记录，所属剧集由单集反查
	p, err := f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 100})
	assert.NoError(t, err)
	assert.Equal(t, f.lacorn.ID, p.LacornID)

	p, err = f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 300})
	assert.NoError(t, err)
	assert.Equal(t, 300, p.CurrentTime)

	histories, err := f.repos.History.ListByUser(f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, histories, 1)
}

func TestRecordProgressAutoComplete(t *testing.T) {
	f := newWatchFixture(t)

	// 单集时长 1000 秒，950 秒即达到完成阈值
	p, err := f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 949})
	assert.NoError(t, err)
	assert.False(t, p.IsCompleted)

	p, err = f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 950})
	assert.NoError(t, err)
	assert.True(t, p.IsCompleted)
}

func TestRecordProgressThresholdOverridesExplicitFlag(t *testing.T) {
	f := newWatchFixture(t)

	// 客户端显式传 completed=false，但进度已过阈值，仍标记为看完
	completed := false
	p, err := f.svc.RecordProgress(f.user.ID, ProgressInput{
		EpisodeID:   &f.ep.ID,
		CurrentTime: 999,
		Completed:   &completed,
	})
	assert.NoError(t, err)
	assert.True(t, p.IsCompleted)
}

func TestRecordProgressExplicitComplete(t *testing.T) {
	f := newWatchFixture(t)

	completed := true
	p, err := f.svc.RecordProgress(f.user.ID, ProgressInput{
		EpisodeID:   &f.ep.ID,
		CurrentTime: 10,
		Completed:   &completed,
	})
	assert.NoError(t, err)
	assert.True(t, p.IsCompleted)
}

func TestRecordProgressFallsBackToSeriesDuration(t *testing.T) {
	f := newWatchFixture(t)

	// 单集没有时长时用剧集默认时长 2700 秒判定
	ep := &model.Episode{
		LacornID:      f.lacorn.ID,
		SeasonNumber:  1,
		EpisodeNumber: 2,
		Title:         "第二集",
		VideoURL:      "https://cdn.example.com/ep2.mp4",
	}
	assert.NoError(t, f.repos.Episode.Create(ep))

	p, err := f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &ep.ID, CurrentTime: 2600})
	assert.NoError(t, err)
	assert.True(t, p.IsCompleted)
}

func TestRecordProgressUnknownUser(t *testing.T) {
	f := newWatchFixture(t)

	_, err := f.svc.RecordProgress(9999, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 10})
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestRecordProgressUnknownEpisode(t *testing.T) {
	f := newWatchFixture(t)

	missing := 9999
	_, err := f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &missing, CurrentTime: 10})
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestGetProgressMissing(t *testing.T) {
	f := newWatchFixture(t)

	_, err := f.svc.GetProgress(f.user.ID, f.lacorn.ID)
	var svcErr *Error
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestListInProgress(t *testing.T) {
	f := newWatchFixture(t)

	other := &model.Lacorn{Title: "假偶天成", EpisodeDuration: 2700}
	assert.NoError(t, f.repos.Lacorn.Create(other))
	otherEp := &model.Episode{
		LacornID:      other.ID,
		SeasonNumber:  1,
		EpisodeNumber: 1,
		Title:         "第一集",
		VideoURL:      "https://cdn.example.com/other1.mp4",
	}
	assert.NoError(t, f.repos.Episode.Create(otherEp))

	_, err := f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &f.ep.ID, CurrentTime: 1000})
	assert.NoError(t, err) // 已看完
	_, err = f.svc.RecordProgress(f.user.ID, ProgressInput{EpisodeID: &otherEp.ID, CurrentTime: 60})
	assert.NoError(t, err) // 未看完

	inProgress, err := f.svc.ListInProgress(f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, inProgress, 1)
	assert.Equal(t, other.ID, inProgress[0].LacornID)

	all, err := f.svc.ListHistory(f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
