package provider

import (
	"slices"
	"testing"
)

func TestProviderInterface(t *testing.T) {
	providers := []struct {
		name         string
		local        bool
		requiresKey  bool
		defaultModel string
		envVar       string
	}{
		{ProviderWhisperCpp, true, false, "base.en", ""},
		{ProviderWhisperNative, true, false, "base.en", ""},
		{ProviderOpenAI, false, true, "whisper-1", EnvOpenAIKey},
		{ProviderGroq, false, true, "whisper-large-v3-turbo", EnvGroqKey},
		{ProviderElevenLabs, false, true, "scribe_v1", EnvElevenLabsKey},
		{ProviderDeepgram, false, true, "nova-3", EnvDeepgramKey},
	}

	for _, tc := range providers {
		t.Run(tc.name, func(t *testing.T) {
			p := GetProvider(tc.name)
			if p == nil {
				t.Fatalf("GetProvider(%q) returned nil", tc.name)
			}
			if p.Name() != tc.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tc.name)
			}
			if p.IsLocal() != tc.local {
				t.Errorf("IsLocal() = %v, want %v", p.IsLocal(), tc.local)
			}
			if p.RequiresAPIKey() != tc.requiresKey {
				t.Errorf("RequiresAPIKey() = %v, want %v", p.RequiresAPIKey(), tc.requiresKey)
			}
			if p.DefaultModel() != tc.defaultModel {
				t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), tc.defaultModel)
			}
			if !slices.Contains(ModelIDs(p), p.DefaultModel()) {
				t.Errorf("default model %q not in Models()", p.DefaultModel())
			}
			if got := EnvVarForProvider(tc.name); got != tc.envVar {
				t.Errorf("EnvVarForProvider = %q, want %q", got, tc.envVar)
			}
			for _, m := range p.Models() {
				if m.Local != tc.local {
					t.Errorf("model %s Local = %v, want %v", m.ID, m.Local, tc.local)
				}
				if !m.Local && m.Endpoint == nil {
					t.Errorf("cloud model %s has no endpoint", m.ID)
				}
				if m.Local && !m.NeedsDownload() {
					t.Errorf("local model %s has no download info", m.ID)
				}
			}
		})
	}
}

func TestGetProviderNotFound(t *testing.T) {
	if p := GetProvider("nonexistent"); p != nil {
		t.Errorf("GetProvider(nonexistent) should return nil, got %v", p)
	}
}

func TestListProviders_Sorted(t *testing.T) {
	names := ListProviders()
	if len(names) != 6 {
		t.Fatalf("expected 6 providers, got %v", names)
	}
	if !slices.IsSorted(names) {
		t.Errorf("ListProviders not sorted: %v", names)
	}
}

func TestFindModel(t *testing.T) {
	m, err := FindModel(ProviderGroq, "whisper-large-v3")
	if err != nil {
		t.Fatalf("FindModel: %v", err)
	}
	if m.AdapterType != AdapterOpenAI {
		t.Errorf("groq models use the openai adapter, got %q", m.AdapterType)
	}
	if m.Endpoint.URL() != "https://api.groq.com/openai/v1/audio/transcriptions" {
		t.Errorf("unexpected endpoint %s", m.Endpoint.URL())
	}

	if _, err := FindModel(ProviderOpenAI, "gpt-4o"); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := FindModel("nope", "whisper-1"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFindModelByID(t *testing.T) {
	m, p, err := FindModelByID("base.en")
	if err != nil {
		t.Fatalf("FindModelByID: %v", err)
	}
	if !m.Local || !p.IsLocal() {
		t.Errorf("base.en should be a local model, got %+v from %s", m, p.Name())
	}

	if _, _, err := FindModelByID("does-not-exist"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestValidateAPIKey(t *testing.T) {
	if !GetProvider(ProviderOpenAI).ValidateAPIKey("sk-test") {
		t.Error("sk- key should be valid for openai")
	}
	if GetProvider(ProviderOpenAI).ValidateAPIKey("gsk_test") {
		t.Error("gsk_ key should be invalid for openai")
	}
	if !GetProvider(ProviderGroq).ValidateAPIKey("gsk_test") {
		t.Error("gsk_ key should be valid for groq")
	}
	if GetProvider(ProviderDeepgram).ValidateAPIKey("") {
		t.Error("empty key should be invalid")
	}
}
