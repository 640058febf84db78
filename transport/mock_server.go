package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shadowy/molecule/molecule"
	"github.com/shadowy/molecule/wallet"
)

// ProposeMoleculeRequest is the body MutationProposeMolecule is submitted
// with: the molecule's wire form plus the address Check should verify the
// signature against.
type ProposeMoleculeRequest struct {
	Molecule            WireMolecule `json:"molecule"`
	SourceWalletAddress string       `json:"sourceWalletAddress"`
}

// MockServer is an in-process gorilla/mux test double for the Node
// interface: it accepts a proposed molecule, runs Check() against it, and
// echoes back the result. It exists purely so this repo's own tests can
// exercise a full sign → submit → verify round trip without a real node.
type MockServer struct {
	router *mux.Router
}

// NewMockServer builds a MockServer with its single route wired up.
func NewMockServer() *MockServer {
	s := &MockServer{router: mux.NewRouter()}
	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/node", s.handleEnvelope).Methods("POST")
	return s
}

// Handler returns the server's http.Handler for use with httptest.Server.
func (s *MockServer) Handler() http.Handler {
	return s.router
}

func (s *MockServer) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Success: false, Reason: "malformed request body"})
		return
	}
	if env.Query != MutationProposeMolecule {
		writeJSON(w, http.StatusOK, &Response{Success: false, Reason: "unsupported operation: " + env.Query})
		return
	}

	varBytes, err := json.Marshal(env.Variables)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Success: false, Reason: "malformed variables"})
		return
	}
	var req ProposeMoleculeRequest
	if err := json.Unmarshal(varBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Success: false, Reason: "malformed molecule payload"})
		return
	}

	m := molecule.New(molecule.NewParams{
		SourceWallet: &wallet.Wallet{Address: req.SourceWalletAddress},
	})
	for _, wa := range req.Molecule.Atoms {
		a, err := wa.ToAtom()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, &Response{Success: false, Reason: err.Error()})
			return
		}
		if err := m.AddAtom(a); err != nil {
			writeJSON(w, http.StatusBadRequest, &Response{Success: false, Reason: err.Error()})
			return
		}
	}
	m.MolecularHash = req.Molecule.MolecularHash

	if err := m.Check(); err != nil {
		writeJSON(w, http.StatusOK, &Response{Success: false, Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, &Response{
		Success: true,
		Data:    map[string]interface{}{"molecularHash": m.MolecularHash},
	})
}

func writeJSON(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
