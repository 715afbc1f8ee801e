package openaicompat

import (
	"sync"

	"github.com/casualjim/genwire/api"
	"github.com/casualjim/genwire/pkg/stdx"
	"github.com/casualjim/genwire/provider"
	"github.com/casualjim/genwire/provider/models"
	"github.com/openai/openai-go"
)

func GPT4oMini(options ...Option) api.Model {
	return Model(openai.ChatModelGPT4oMini, options...)
}

func GPT4o(options ...Option) api.Model {
	return Model(openai.ChatModelChatgpt4oLatest, options...)
}

func O1Mini(options ...Option) api.Model {
	return Model(openai.ChatModelO1Mini, options...)
}

func O1(options ...Option) api.Model {
	return Model(openai.ChatModelO1, options...)
}

// Model returns the model registered under name, registering it in
// models.Global on first use. Options only apply to the first registration.
func Model(name string, options ...Option) api.Model {
	return models.GetOrAdd(name, func() api.Model {
		return &model{
			name: name,
			opts: options,
		}
	})
}

var _ api.Model = (*model)(nil)

type model struct {
	name string
	opts []Option

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		options := append([]Option{WithModel(m.name)}, m.opts...)
		m.prov = stdx.Must1(New(options...))
	})
	return m.prov
}
