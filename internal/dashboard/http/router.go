package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/colegiosoft/siged/pkg/slogx"

	_ "github.com/colegiosoft/siged/api/dashboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	verifier     *jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookieSecure bool

	store             store.Store
	AuthService       *service.AuthService
	PerfilService     *service.PerfilService
	MFAService        *service.MFAService
	UsuariosService   *service.UsuariosService
	RegistrosService  *service.RegistrosService
	DocumentosService *service.DocumentosService
}

func NewRouter(
	signer *jwtx.Signer,
	issuer, buildVersion string,
	cookieSecure bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     signer.Verifier(issuer),
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		cookieSecure: cookieSecure,
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPerfil()
	r.registerUsuarios()
	r.registerRegistros()
	r.registerDocumentos()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SIGED API
//	@version		0.1.0
//	@description	Backend for the secretary-of-education dashboard: authentication with
//	@description	rotating refresh tokens, role-gated administrative records, and document storage.
//	@description
//	@description				Access tokens are signed with EdDSA (Ed25519) and carry the user's rol claim.
//
//	@contact.name				ColegioSoft
//	@contact.url				https://github.com/colegiosoft/siged
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.cookieSecure,
	}

	// POST /auth/login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/refresh - moderate rate limit; legitimate clients refresh often
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout - moderate rate limit; always 204 regardless of token state
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPerfil() {
	h := &PerfilHandler{
		PerfilService: r.PerfilService,
		MFAService:    r.MFAService,
	}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /v1/perfil", secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/perfil", secured(h.HandlePatch, httpx.ModerateLimit))

	r.Mux.Handle("POST /v1/perfil/mfa/enroll", secured(h.HandleMFAEnroll, httpx.ModerateLimit))
	// Strict on activation: each attempt burns a TOTP guess
	r.Mux.Handle("POST /v1/perfil/mfa/activate", secured(h.HandleMFAActivate, httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/perfil/mfa", secured(h.HandleMFADeactivate, httpx.StrictLimit))
}

func (r *Router) registerUsuarios() {
	h := &UsuariosHandler{UsuariosService: r.UsuariosService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRol(domain.RolSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/usuarios", secured(h.HandleList))
	r.Mux.Handle("POST /v1/usuarios", secured(h.HandleCreate))
	r.Mux.Handle("PATCH /v1/usuarios/{id}/rol", secured(h.HandleUpdateRol))
	r.Mux.Handle("DELETE /v1/usuarios/{id}", secured(h.HandleDelete))
}

// registerRegistros wires the administrative collections. Reads are open to
// any authenticated rol, writes require admin or super_admin.
func (r *Router) registerRegistros() {
	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRol(domain.RolAdmin, domain.RolSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	inst := &InstitucionesHandler{Registros: r.RegistrosService}
	r.Mux.Handle("GET /v1/instituciones", read(inst.HandleList))
	r.Mux.Handle("GET /v1/instituciones/{id}", read(inst.HandleGet))
	r.Mux.Handle("POST /v1/instituciones", write(inst.HandleCreate))
	r.Mux.Handle("PUT /v1/instituciones/{id}", write(inst.HandleUpdate))
	r.Mux.Handle("DELETE /v1/instituciones/{id}", write(inst.HandleDelete))

	est := &EstudiantesHandler{Registros: r.RegistrosService}
	r.Mux.Handle("GET /v1/estudiantes", read(est.HandleList))
	r.Mux.Handle("GET /v1/estudiantes/{id}", read(est.HandleGet))
	r.Mux.Handle("POST /v1/estudiantes", write(est.HandleCreate))
	r.Mux.Handle("PUT /v1/estudiantes/{id}", write(est.HandleUpdate))
	r.Mux.Handle("DELETE /v1/estudiantes/{id}", write(est.HandleDelete))

	per := &PersonalHandler{Registros: r.RegistrosService}
	r.Mux.Handle("GET /v1/profesores", read(per.HandleListProfesores))
	r.Mux.Handle("GET /v1/profesores/{id}", read(per.HandleGetProfesor))
	r.Mux.Handle("POST /v1/profesores", write(per.HandleCreateProfesor))
	r.Mux.Handle("PUT /v1/profesores/{id}", write(per.HandleUpdateProfesor))
	r.Mux.Handle("DELETE /v1/profesores/{id}", write(per.HandleDeleteProfesor))

	r.Mux.Handle("GET /v1/rectores", read(per.HandleListRectores))
	r.Mux.Handle("GET /v1/rectores/{id}", read(per.HandleGetRector))
	r.Mux.Handle("POST /v1/rectores", write(per.HandleCreateRector))
	r.Mux.Handle("PUT /v1/rectores/{id}", write(per.HandleUpdateRector))
	r.Mux.Handle("DELETE /v1/rectores/{id}", write(per.HandleDeleteRector))

	nov := &NovedadesHandler{Registros: r.RegistrosService}
	r.Mux.Handle("GET /v1/suplencias", read(nov.HandleListSuplencias))
	r.Mux.Handle("GET /v1/suplencias/{id}", read(nov.HandleGetSuplencia))
	r.Mux.Handle("POST /v1/suplencias", write(nov.HandleCreateSuplencia))
	r.Mux.Handle("PUT /v1/suplencias/{id}", write(nov.HandleUpdateSuplencia))
	r.Mux.Handle("DELETE /v1/suplencias/{id}", write(nov.HandleDeleteSuplencia))

	r.Mux.Handle("GET /v1/horas-extra", read(nov.HandleListHorasExtra))
	r.Mux.Handle("GET /v1/horas-extra/{id}", read(nov.HandleGetHoraExtra))
	r.Mux.Handle("POST /v1/horas-extra", write(nov.HandleCreateHoraExtra))
	r.Mux.Handle("POST /v1/horas-extra/{id}/resolver", write(nov.HandleResolverHoraExtra))
	r.Mux.Handle("DELETE /v1/horas-extra/{id}", write(nov.HandleDeleteHoraExtra))

	bie := &BienestarHandler{Registros: r.RegistrosService}
	r.Mux.Handle("GET /v1/pae", read(bie.HandleListPAE))
	r.Mux.Handle("GET /v1/pae/{id}", read(bie.HandleGetPAE))
	r.Mux.Handle("POST /v1/pae", write(bie.HandleCreatePAE))
	r.Mux.Handle("PUT /v1/pae/{id}", write(bie.HandleUpdatePAE))
	r.Mux.Handle("DELETE /v1/pae/{id}", write(bie.HandleDeletePAE))

	r.Mux.Handle("GET /v1/transporte", read(bie.HandleListTransporte))
	r.Mux.Handle("GET /v1/transporte/{id}", read(bie.HandleGetTransporte))
	r.Mux.Handle("POST /v1/transporte", write(bie.HandleCreateTransporte))
	r.Mux.Handle("PUT /v1/transporte/{id}", write(bie.HandleUpdateTransporte))
	r.Mux.Handle("DELETE /v1/transporte/{id}", write(bie.HandleDeleteTransporte))
}

func (r *Router) registerDocumentos() {
	h := &DocumentosHandler{Documentos: r.DocumentosService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRol(domain.RolAdmin, domain.RolSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/documentos", read(h.HandleList))
	r.Mux.Handle("GET /v1/documentos/{id}", read(h.HandleGet))
	r.Mux.Handle("GET /v1/documentos/{id}/descargar", read(h.HandleDownload))
	r.Mux.Handle("POST /v1/documentos", write(h.HandleUpload))
	r.Mux.Handle("DELETE /v1/documentos/{id}", write(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
