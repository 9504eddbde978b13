package razgif

import (
	"html/template"
	"io/fs"
	"net/http"
)

type Server struct {
	http.ServeMux
	mgr   *SessionMgr
	index *template.Template
}

func NewServer(assets fs.FS, mgr *SessionMgr) *Server {
	indexRaw, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		panic(err)
	}
	srv := &Server{
		mgr:   mgr,
		index: template.Must(template.New("").Parse(string(indexRaw))),
	}

	srv.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) <= 1 {
			srv.redirectToNewSession(w, r)
			return
		}
		http.NotFound(w, r)
	})

	srv.HandleFunc("/session/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[9:]
		if len(roomID) == 0 {
			srv.redirectToNewSession(w, r)
			return
		}
		srv.index.Execute(w, roomID)
	})

	srv.HandleFunc("/demo", func(w http.ResponseWriter, r *http.Request) {
		roomID, err := mgr.NewDemoSession()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/session/"+roomID, http.StatusTemporaryRedirect)
	})

	srv.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[4:]
		mgr.ServeRPC(w, r, roomID)
	})

	srv.HandleFunc("/gif/", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Path[5:]
		w.Header().Set("Content-Disposition", "attachment; filename="+roomID+".gif")
		w.Header().Set("Content-Type", "image/gif")
		if err := mgr.RenderGIF(w, roomID); err != nil {
			http.Error(w, "Session not found or empty", http.StatusNotFound)
		}
	})

	return srv
}

func (srv *Server) redirectToNewSession(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/session/"+GenerateID(8), http.StatusTemporaryRedirect)
}
