package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/subcrack/internal/subst"
)

const fixturePath = "../../internal/freq/testdata/english.txt"

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func TestEncryptDecryptVigenere(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "plain.txt", "Attack at dawn\n")

	out, err := execute(t, "", "encrypt", path, "--cipher", "vigenere", "--key", "LEMON")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if out != "lxfopv ef rnhr\n" {
		t.Fatalf("unexpected ciphertext %q", out)
	}

	out, err = execute(t, out, "decrypt", "-", "--cipher", "vigenere", "--key", "lemon")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if out != "attack at dawn\n" {
		t.Fatalf("unexpected plaintext %q", out)
	}
}

func TestEncryptMonoToFile(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "plain.txt", "Hello, world")
	outPath := filepath.Join(dir, "out", "cipher.txt")

	if _, err := execute(t, "", "encrypt", path, "--key", "qwertyuiopasdfghjklzxcvbnm", "--out", outPath); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "itssg, vgksr\n" {
		t.Fatalf("unexpected ciphertext %q", data)
	}
}

func TestTransformRejectsBadInput(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "plain.txt", "abc")
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing key", args: []string{"encrypt", path}, want: "--key is required"},
		{name: "short mono key", args: []string{"encrypt", path, "--key", "abc"}, want: "invalid --key"},
		{name: "vigenere digits", args: []string{"decrypt", path, "--cipher", "vigenere", "--key", "k3y"}, want: "invalid --key"},
		{name: "unknown cipher", args: []string{"encrypt", path, "--cipher", "enigma", "--key", "abc"}, want: "--cipher must be"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestTrainWritesDataFiles(t *testing.T) {
	dir := setupEnv(t)
	outDir := filepath.Join(dir, "freq")
	if _, err := execute(t, "", "train", fixturePath, "--dir", outDir); err != nil {
		t.Fatalf("train: %v", err)
	}
	for _, name := range []string{"english_monograms.txt", "english_bigrams.txt", "english_quadgrams.txt"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
	mono, err := os.ReadFile(filepath.Join(outDir, "english_monograms.txt"))
	if err != nil {
		t.Fatalf("read monograms: %v", err)
	}
	if !strings.HasPrefix(string(mono), "e ") {
		t.Fatalf("expected e first, got %q", strings.SplitN(string(mono), "\n", 2)[0])
	}

	_, err = execute(t, "", "train", fixturePath, "--dir", outDir)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := execute(t, "", "train", fixturePath, "--dir", outDir, "--force"); err != nil {
		t.Fatalf("train --force: %v", err)
	}
}

func TestTrainFromURL(t *testing.T) {
	dir := setupEnv(t)
	body := readFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	if _, err := execute(t, "", "train", srv.URL+"/english.txt"); err != nil {
		t.Fatalf("train from url: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "subcrack", "data", "english_quadgrams.txt")); err != nil {
		t.Fatalf("expected quadgram file in data dir: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "data", "subcrack", "corpus"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cached corpus, got %d (%v)", len(entries), err)
	}
}

func TestBreakWithoutDataSuggestsTrain(t *testing.T) {
	dir := setupEnv(t)
	path := writeFile(t, dir, "cipher.txt", "uryyb jbeyq")
	_, err := execute(t, "", "mono", path)
	if err == nil || !strings.Contains(err.Error(), "subcrack train") {
		t.Fatalf("expected train hint, got %v", err)
	}
}

func TestConfigFileAndFlagLayering(t *testing.T) {
	dir := setupEnv(t)
	cfgDir := filepath.Join(dir, "config", "subcrack")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, cfgDir, "config.toml", "[mono]\nrestarts = 0\n")

	_, err := execute(t, "", "mono", filepath.Join(dir, "missing.txt"))
	if err == nil || !strings.Contains(err.Error(), "--restarts must be > 0") {
		t.Fatalf("expected config value to be validated, got %v", err)
	}

	_, err = execute(t, "", "mono", filepath.Join(dir, "missing.txt"), "--restarts", "2")
	if err == nil || !strings.Contains(err.Error(), "failed to load ciphertext") {
		t.Fatalf("expected flag to override config, got %v", err)
	}
}

func TestTrainWritesConfiguredDataPaths(t *testing.T) {
	dir := setupEnv(t)
	cfgDir := filepath.Join(dir, "config", "subcrack")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dataDir := filepath.Join(dir, "custom")
	monoPath := filepath.Join(dataDir, "mono.txt")
	bigramPath := filepath.Join(dataDir, "bi.txt")
	writeFile(t, cfgDir, "config.toml", fmt.Sprintf("[data]\nmonograms = %q\nbigrams = %q\n", monoPath, bigramPath))
	ngramPath := filepath.Join(dataDir, "quad.txt")

	if _, err := execute(t, "", "train", fixturePath, "--ngrams", ngramPath); err != nil {
		t.Fatalf("train: %v", err)
	}
	for _, path := range []string{monoPath, bigramPath, ngramPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to be written: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "subcrack", "data", "english_monograms.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected default monogram path to stay unused, got %v", err)
	}

	path := writeFile(t, dir, "cipher.txt", "lxfopvefrnhr")
	if _, err := execute(t, "", "vigenere", path, "--keylen", "3", "--no-history"); err != nil {
		t.Fatalf("vigenere with configured data: %v", err)
	}
}

func TestVigenereFlagValidation(t *testing.T) {
	dir := setupEnv(t)
	if _, err := execute(t, "", "train", fixturePath); err != nil {
		t.Fatalf("train: %v", err)
	}
	path := writeFile(t, dir, "cipher.txt", "lxfopvefrnhr")

	_, err := execute(t, "", "vigenere", path)
	if err == nil || !strings.Contains(err.Error(), "--keylen must be > 0") {
		t.Fatalf("expected missing keylen error, got %v", err)
	}
	_, err = execute(t, "", "vigenere", path, "--keylen", "12")
	if err == nil || !strings.Contains(err.Error(), "shorter than the ciphertext") {
		t.Fatalf("expected keylen too long error, got %v", err)
	}
}

func TestVigenereBreakAndHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("trains and breaks a full text")
	}
	dir := setupEnv(t)
	if _, err := execute(t, "", "train", fixturePath); err != nil {
		t.Fatalf("train: %v", err)
	}
	ciphertext, err := subst.EncryptVigenere(readFixture(t), "crypt")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	path := writeFile(t, dir, "cipher.txt", ciphertext)

	out, err := execute(t, "", "vigenere", path, "--keylen", "5")
	if err != nil {
		t.Fatalf("vigenere: %v", err)
	}
	if out != "crypt\n" {
		t.Fatalf("expected key crypt, got %q", out)
	}

	out, err = execute(t, "", "history", "--cipher", "vigenere")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "Runs (1)") || !strings.Contains(out, "crypt") {
		t.Fatalf("expected recorded run, got:\n%s", out)
	}
	out, err = execute(t, "", "history", "--cipher", "mono")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs found.") {
		t.Fatalf("expected no mono runs, got:\n%s", out)
	}
}

func TestMonoBreakRecoversKey(t *testing.T) {
	if testing.Short() {
		t.Skip("trains and breaks a full text")
	}
	dir := setupEnv(t)
	if _, err := execute(t, "", "train", fixturePath); err != nil {
		t.Fatalf("train: %v", err)
	}
	key, err := subst.ParseKey("qwertyuiopasdfghjklzxcvbnm")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	path := writeFile(t, dir, "cipher.txt", subst.EncryptMono(readFixture(t), key))

	out, err := execute(t, "", "mono", path, "--restarts", "2", "--seed", "7", "--no-history")
	if err != nil {
		t.Fatalf("mono: %v", err)
	}
	if out != key.String()+"\n" {
		t.Fatalf("expected key %s, got %q", key, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "subcrack", "subcrack.db")); !os.IsNotExist(err) {
		t.Fatalf("expected no history database with --no-history, got %v", err)
	}
}

func TestHistoryFilterValidation(t *testing.T) {
	cases := []struct {
		name   string
		cipher string
		since  string
		last   int
		ok     bool
	}{
		{name: "empty", ok: true},
		{name: "mono upper", cipher: "MONO", ok: true},
		{name: "since", since: "2026-01-02", last: 3, ok: true},
		{name: "bad cipher", cipher: "caesar"},
		{name: "bad since", since: "yesterday"},
		{name: "negative last", last: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			historyCipher, historySince, historyLast = tc.cipher, tc.since, tc.last
			t.Cleanup(func() {
				historyCipher, historySince, historyLast = "", "", 0
			})
			filter, err := historyFilter()
			if tc.ok != (err == nil) {
				t.Fatalf("ok=%v, got err %v", tc.ok, err)
			}
			if tc.ok && tc.since != "" && filter.Since == nil {
				t.Fatalf("expected since to be parsed")
			}
		})
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	dir := setupEnv(t)
	cfgDir := filepath.Join(dir, "config", "subcrack")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, cfgDir, "config.toml", defaultConfigTemplate())
	path := writeFile(t, dir, "text.txt", "hello")
	if _, err := execute(t, "", "analyze", path); err != nil {
		t.Fatalf("analyze with template config: %v", err)
	}
}
