package http

import "html/template"

// The whole UI is a handful of pages, so the markup lives inline the same way
// the rest of the app keeps its SQL inline: one const per page, one shared
// layout pair. Handlers hand templates fully computed view data; there is no
// authorization or ownership logic in the markup.

const layoutHead = `
{{define "head"}}
<!doctype html>
<html lang="en" data-bs-theme="light">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{if .Title}}{{.Title}}{{else}}FriendBook{{end}}</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css" rel="stylesheet" />
    <style>
        body { background: #d0f0f7; color: #003300; }
        .card { border-radius: 0.75rem; box-shadow: 0 4px 8px rgba(20, 120, 100, 0.15); }
        .navbar, .footer { background: #a0d8b3; }
        .btn-primary { background-color: #339966; border-color: #2d7a4b; }
        .btn-primary:hover { background-color: #2d7a4b; border-color: #255f3a; }
        .chat-message {
            max-width: 70%;
            padding: 10px 15px;
            margin-bottom: 8px;
            border-radius: 15px;
            word-wrap: break-word;
        }
        .chat-message.user {
            background-color: #339966;
            color: white;
            margin-left: auto;
            border-bottom-right-radius: 0;
        }
        .chat-message.other {
            background-color: #d0f0f7;
            color: #003300;
            margin-right: auto;
            border-bottom-left-radius: 0;
        }
        .flash-message { margin-top: 10px; }
        a.nav-link.active { font-weight: 600; color: #004d26 !important; }
    </style>
</head>
<body>
<nav class="navbar navbar-expand-lg navbar-light mb-4">
  <div class="container">
    <a class="navbar-brand fw-bold text-dark" href="/dashboard">FriendBook</a>
    <button class="navbar-toggler" type="button" data-bs-toggle="collapse" data-bs-target="#navMenu" aria-controls="navMenu" aria-expanded="false" aria-label="Toggle navigation">
      <span class="navbar-toggler-icon"></span>
    </button>
    <div class="collapse navbar-collapse" id="navMenu">
      <ul class="navbar-nav ms-auto">
        {{if .User}}
          <li class="nav-item"><a class="nav-link {{if eq .Active "dashboard"}}active{{end}}" href="/dashboard">Dashboard</a></li>
          <li class="nav-item"><a class="nav-link {{if eq .Active "chat"}}active{{end}}" href="/chat">Chat</a></li>
          <li class="nav-item"><a class="nav-link {{if eq .Active "profile"}}active{{end}}" href="/profile">Profile</a></li>
          <li class="nav-item"><a class="nav-link {{if eq .Active "settings"}}active{{end}}" href="/settings">Settings</a></li>
          <li class="nav-item"><a class="nav-link" href="/logout">Logout</a></li>
        {{else}}
          <li class="nav-item"><a class="nav-link {{if eq .Active "login"}}active{{end}}" href="/login">Login</a></li>
          <li class="nav-item"><a class="nav-link {{if eq .Active "register"}}active{{end}}" href="/register">Register</a></li>
        {{end}}
      </ul>
    </div>
  </div>
</nav>

<div class="container">
  {{if .Flash}}
    <div class="flash-message">
      <div class="alert alert-{{.Flash.Category}} alert-dismissible fade show" role="alert">
        {{.Flash.Message}}
        <button type="button" class="btn-close" data-bs-dismiss="alert" aria-label="Close"></button>
      </div>
    </div>
  {{end}}
{{end}}
`

const layoutFoot = `
{{define "foot"}}
</div>

<footer class="footer text-center py-3 mt-5">
  <small>FriendBook &copy; 2025</small>
</footer>

<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/js/bootstrap.bundle.min.js"></script>
</body>
</html>
{{end}}
`

const registerPage = `
{{define "register"}}
{{template "head" .}}
<div class="card p-4 mx-auto" style="max-width: 450px;">
  <h3 class="mb-3">Register</h3>
  <form method="POST" novalidate>
    <div class="mb-3">
      <label for="username" class="form-label">Username *</label>
      <input type="text" class="form-control" id="username" name="username" required minlength="3" maxlength="80" />
    </div>
    <div class="mb-3">
      <label for="about" class="form-label">Tell us more about yourself</label>
      <textarea class="form-control" id="about" name="about" rows="2" maxlength="300"></textarea>
    </div>
    <div class="mb-3">
      <label for="password" class="form-label">Password *</label>
      <input type="password" class="form-control" id="password" name="password" required minlength="6" />
    </div>
    <div class="mb-3">
      <label for="confirm_password" class="form-label">Confirm Password *</label>
      <input type="password" class="form-control" id="confirm_password" name="confirm_password" required minlength="6" />
    </div>
    <button type="submit" class="btn btn-primary w-100">Register</button>
  </form>
  <p class="mt-3 mb-0 text-center">Already have an account? <a href="/login">Login here</a>.</p>
</div>
{{template "foot" .}}
{{end}}
`

const loginPage = `
{{define "login"}}
{{template "head" .}}
<div class="card p-4 mx-auto" style="max-width: 400px;">
  <h3 class="mb-3">Login</h3>
  <form method="POST" novalidate>
    <div class="mb-3">
      <label for="username" class="form-label">Username</label>
      <input type="text" class="form-control" id="username" name="username" required minlength="3" maxlength="80" />
    </div>
    <div class="mb-3">
      <label for="password" class="form-label">Password</label>
      <input type="password" class="form-control" id="password" name="password" required minlength="6" />
    </div>
    <button type="submit" class="btn btn-primary w-100">Login</button>
  </form>
  <p class="mt-3 mb-0 text-center">Don't have an account? <a href="/register">Register here</a>.</p>
</div>
{{template "foot" .}}
{{end}}
`

const dashboardPage = `
{{define "dashboard"}}
{{template "head" .}}
<div class="row">
  <div class="col-md-6 mx-auto">
    <div class="card p-4 mb-4">
      <h4>Create Post</h4>
      <form method="POST" novalidate>
        <div class="mb-3">
          <input type="text" class="form-control" name="subject" placeholder="Subject" maxlength="150" required />
        </div>
        <div class="mb-3">
          <textarea class="form-control" name="body" placeholder="Write your post here..." rows="4" required maxlength="2000"></textarea>
        </div>
        <button class="btn btn-primary w-100" type="submit">Post</button>
      </form>
    </div>

    <h4 class="mb-3">Recent Posts</h4>
    {{range .Posts}}
      <div class="card p-3 mb-3">
        <h5>{{.Subject}}</h5>
        <p>{{.Body}}</p>
        <small class="text-muted">By <a href="/profile/{{.AuthorID}}">{{.AuthorName}}</a></small>
      </div>
    {{else}}
      <p>No posts yet.</p>
    {{end}}
  </div>
</div>
{{template "foot" .}}
{{end}}
`

const chatPage = `
{{define "chat"}}
{{template "head" .}}
<h3 class="mb-4">Chat Room</h3>
<div style="max-width: 700px; margin: auto;">
  <div class="border rounded p-3 mb-3" style="height: 350px; overflow-y: auto; background: #e6f2e6;">
    {{range .Messages}}
      {{if .Mine}}
        <div class="chat-message user">{{.Content}}</div>
      {{else}}
        <div class="chat-message other"><strong>{{.AuthorName}}:</strong> {{.Content}}</div>
      {{end}}
    {{end}}
  </div>
  <form method="POST" class="d-flex">
    <input type="text" name="content" class="form-control me-2" placeholder="Write a message..." required maxlength="500" />
    <button type="submit" class="btn btn-primary">Send</button>
  </form>
</div>
{{template "foot" .}}
{{end}}
`

const profilePage = `
{{define "profile"}}
{{template "head" .}}
<div class="card mx-auto" style="max-width: 450px; padding: 20px;">
  <h3>Profile</h3>
  <p><strong>Username:</strong> {{.Profile.Username}}</p>
  <p><strong>About Me:</strong> {{.Profile.About}}</p>
</div>
{{template "foot" .}}
{{end}}
`

const settingsPage = `
{{define "settings"}}
{{template "head" .}}
<div class="card mx-auto" style="max-width: 450px; padding: 20px;">
  <h3>Settings</h3>
  <form method="POST" novalidate>
    <div class="mb-3">
      <label for="username" class="form-label">Change Username</label>
      <input type="text" class="form-control" id="username" name="username" value="{{.Settings.Username}}" minlength="3" maxlength="80" />
    </div>
    <div class="mb-3">
      <label for="about" class="form-label">About Me</label>
      <textarea class="form-control" id="about" name="about" rows="3" maxlength="300">{{.Settings.About}}</textarea>
    </div>
    <hr />
    <h5>Change Password</h5>
    <div class="mb-3">
      <label for="current_password" class="form-label">Current Password</label>
      <input type="password" class="form-control" id="current_password" name="current_password" />
    </div>
    <div class="mb-3">
      <label for="new_password" class="form-label">New Password</label>
      <input type="password" class="form-control" id="new_password" name="new_password" minlength="6" />
    </div>
    <div class="mb-3">
      <label for="confirm_new_password" class="form-label">Confirm New Password</label>
      <input type="password" class="form-control" id="confirm_new_password" name="confirm_new_password" minlength="6" />
    </div>
    <button class="btn btn-primary w-100" type="submit">Save Changes</button>
  </form>
</div>
{{template "foot" .}}
{{end}}
`

const errorPage = `
{{define "error"}}
{{template "head" .}}
<div class="card mx-auto text-center" style="max-width: 450px; padding: 20px;">
  <h3>{{.Title}}</h3>
  <p>{{.Detail}}</p>
  <p class="mb-0"><a href="/">Back to FriendBook</a></p>
</div>
{{template "foot" .}}
{{end}}
`

func templates() *template.Template {
	t := template.New("friendbook")
	for _, src := range []string{
		layoutHead,
		layoutFoot,
		registerPage,
		loginPage,
		dashboardPage,
		chatPage,
		profilePage,
		settingsPage,
		errorPage,
	} {
		t = template.Must(t.Parse(src))
	}
	return t
}
