package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/rpc"
	"github.com/weakphish/notevault/internal/vault"
	"github.com/weakphish/notevault/internal/vaultpath"
	"github.com/weakphish/notevault/internal/walker"
)

// Run launches the blocking stdio JSON-RPC loop.
func Run(v *vault.Vault) error {
	scanner := bufio.NewScanner(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var request rpc.Request
		if err := json.Unmarshal([]byte(line), &request); err != nil {
			logging.Warnf("malformed JSON: %v", err)
			resp := rpc.ResponseError(rpc.NullID(), rpc.ParseError(err.Error()))
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
			continue
		}

		resp, ok := handleRequest(v, request)
		if ok {
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read error: %w", err)
	}
	logging.Infof("stdin closed, shutting down")
	return nil
}

func writeResponse(w *bufio.Writer, resp rpc.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

func handleRequest(v *vault.Vault, req rpc.Request) (rpc.Response, bool) {
	id := rpc.NullID()
	if req.ID != nil {
		id = *req.ID
	}

	if req.JSONRPC != "2.0" {
		return rpc.ResponseError(id, rpc.InvalidRequest(`jsonrpc must be "2.0"`)), true
	}

	result, err := dispatch(v, req.Method, req.Params)
	if err.Code != 0 {
		if req.ID == nil {
			logging.Warnf("notification for method %q failed: %v", req.Method, err)
			return rpc.Response{}, false
		}
		return rpc.ResponseError(id, err), true
	}

	if req.ID == nil {
		return rpc.Response{}, false
	}
	return rpc.ResponseResult(id, result), true
}

func dispatch(v *vault.Vault, method string, params json.RawMessage) (interface{}, rpc.Error) {
	switch method {
	case "vault.index":
		payload, perr := rpc.ParseParams[rpc.IndexParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		mode, merr := parseMode(payload.Mode)
		if merr.Code != 0 {
			return nil, merr
		}
		if err := v.IndexNotes(mode); err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "vault.browse":
		payload, perr := rpc.ParseParams[rpc.BrowseParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		mode, merr := parseMode(payload.Mode)
		if merr.Code != 0 {
			return nil, merr
		}
		opts := vault.NewBrowseOptions(vaultpath.FromString(payload.Path)).
			Recursive(payload.Recursive).
			WithMode(mode).
			Build()
		if err := v.BrowseVault(opts); err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "vault.search":
		payload, perr := rpc.ParseParams[rpc.SearchParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		results, err := v.SearchNotes(payload.Terms, payload.Wildcard)
		if err != nil {
			return nil, toRPCError(err)
		}
		return results, rpc.Error{}

	case "vault.get_notes":
		payload, perr := rpc.ParseParams[rpc.GetNotesParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		entries, details, err := v.GetNotes(vaultpath.FromString(payload.Path), payload.Recursive)
		if err != nil {
			return nil, toRPCError(err)
		}
		return map[string]interface{}{"entries": entries, "details": details}, rpc.Error{}

	case "vault.load_note":
		payload, perr := rpc.ParseParams[rpc.PathParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		text, err := v.LoadNote(vaultpath.FromString(payload.Path))
		if err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"text": text}, rpc.Error{}

	case "vault.save_note":
		payload, perr := rpc.ParseParams[rpc.SaveNoteParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		if err := v.SaveNote(vaultpath.FromString(payload.Path), payload.Text); err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "vault.create_note":
		payload, perr := rpc.ParseParams[rpc.CreateNoteParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		if err := v.CreateNote(vaultpath.FromString(payload.Path), payload.Text); err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "vault.journal_entry":
		path, text, err := v.JournalEntry()
		if err != nil {
			return nil, toRPCError(err)
		}
		return map[string]string{"path": path.String(), "text": text}, rpc.Error{}

	case "vault.exists":
		payload, perr := rpc.ParseParams[rpc.PathParams](params)
		if perr.Code != 0 {
			return nil, perr
		}
		entry, ok := v.Exists(vaultpath.FromString(payload.Path))
		return map[string]interface{}{"exists": ok, "entry": entry}, rpc.Error{}

	default:
		return nil, rpc.MethodNotFound(method)
	}
}

func parseMode(value string) (walker.Mode, rpc.Error) {
	switch value {
	case "", "fast":
		return walker.ModeFast, rpc.Error{}
	case "none":
		return walker.ModeNone, rpc.Error{}
	case "full":
		return walker.ModeFull, rpc.Error{}
	default:
		return walker.ModeFast, rpc.InvalidParams(fmt.Sprintf("invalid mode %q", value))
	}
}

func toRPCError(err error) rpc.Error {
	var vaultErr *vault.Error
	if errors.As(err, &vaultErr) {
		switch vaultErr.Kind {
		case vault.VaultPathNotFound, vault.InvalidPath, vault.NoteExists:
			return rpc.InvalidRequest(vaultErr.Error())
		default:
			return rpc.ServerError(vaultErr.Error())
		}
	}
	return rpc.ServerError(err.Error())
}
