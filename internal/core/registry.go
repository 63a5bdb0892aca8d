package core

import (
	"fmt"
	"sort"
	"sync"

	"PartHunter/internal/platform"
)

// Provider 一个分销商的注册信息
type Provider struct {
	// 唯一标识，例如 "digikey"
	Name string
	// 用调用方给的配置构造分销商实例
	New func(cfg platform.Config) (platform.Distributor, error)
	// 默认配置，凭据需要调用方补齐
	DefaultConfig func() platform.Config
}

var (
	regMu    sync.RWMutex
	registry = map[string]Provider{}
)

func Register(p Provider) error {
	if p.Name == "" {
		return fmt.Errorf("provider 的名字不能为空")
	}
	if p.New == nil || p.DefaultConfig == nil {
		return fmt.Errorf("provider %s 的配置不正确", p.Name)
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := registry[p.Name]; exists {
		return fmt.Errorf("provider %s 已经注册过了", p.Name)
	}
	registry[p.Name] = p
	return nil
}

func MustRegister(p Provider) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

func Get(name string) (Provider, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

func List() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDistributor 按名字构造平台实例，cfg 为 nil 时使用默认配置
func NewDistributor(name string, cfg platform.Config) (platform.Distributor, error) {
	prov, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("未知或未实现的平台: %s", name)
	}
	if cfg == nil {
		cfg = prov.DefaultConfig()
	}
	d, err := prov.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建平台实例失败: %w", err)
	}
	return d, nil
}
