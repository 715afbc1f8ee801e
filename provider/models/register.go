// Package models keeps the process-wide table of named models.
package models

import (
	"github.com/casualjim/genwire/api"
	"github.com/casualjim/genwire/internal/registry"
)

var Global = registry.New[api.Model]()

func Add(model api.Model) {
	Global.Add(model.Name(), model)
}

func Get(name string) (api.Model, bool) {
	return Global.Get(name)
}

func GetOrAdd(name string, modelF func() api.Model) api.Model {
	m, _ := Global.GetOrAdd(name, modelF)
	return m
}

func Del(name string) {
	Global.Del(name)
}

// Names lists the registered model names in sorted order.
func Names() []string {
	return Global.Names()
}
