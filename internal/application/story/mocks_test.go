package story

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/mock"

	"kidz-story-api/internal/domain/language"
	"kidz-story-api/internal/mocks"
)

// fakeChatModel 按调用顺序返回预设回复
type fakeChatModel struct {
	mu       sync.Mutex
	replies  map[string][]reply
	calls    map[string]int
	lastOpts []model.Option
}

type reply struct {
	content string
	err     error
}

func newFakeChatModel() *fakeChatModel {
	return &fakeChatModel{replies: map[string][]reply{}, calls: map[string]int{}}
}

// on 为某条系统消息注册回复，超出部分重复最后一条
func (f *fakeChatModel) on(system string, replies ...reply) *fakeChatModel {
	f.replies[system] = replies
	return f
}

func (f *fakeChatModel) callsFor(system string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[system]
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	system := input[0].Content
	n := f.calls[system]
	f.calls[system] = n + 1
	f.lastOpts = opts

	rs := f.replies[system]
	if len(rs) == 0 {
		return schema.AssistantMessage("", nil), nil
	}
	if n >= len(rs) {
		n = len(rs) - 1
	}
	if rs[n].err != nil {
		return nil, rs[n].err
	}
	return schema.AssistantMessage(rs[n].content, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	panic("not used")
}

type fakeFactory struct {
	model model.BaseChatModel
	err   error
	names []string
}

func (f *fakeFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.names = append(f.names, name)
	return f.model, f.err
}

type mockContentGenerator struct{ mock.Mock }

func (m *mockContentGenerator) GenerateContent(ctx context.Context, storyPrompt, titlePrompt string, lang language.Language) (*Content, error) {
	args := m.Called(ctx, storyPrompt, titlePrompt, lang)
	if c := args.Get(0); c != nil {
		return c.(*Content), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockImageGenerator struct{ mock.Mock }

func (m *mockImageGenerator) GenerateAndUpload(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type (
	mockFeed      = mocks.MockFeedInvalidator
	mockPublisher = mocks.MockEventPublisher
	mockStoryRepo = mocks.MockStoryRepository
	inlineTx      = mocks.InlineTransactor
)

func validRequest(lang string) *Request {
	return &Request{
		UserID:         "user-1",
		AgeGroup:       StringField("3-5"),
		Language:       lang,
		FavoriteThings: StringField("dragons, cats"),
		World:          StringField("Space"),
		Theme:          ListField("Friendship", "Courage"),
		Mood:           StringField("Happy"),
	}
}

// zeroDelay 测试中不等待
var zeroDelay = RetryPolicy{}
