package feed

const habrFeedHTML = `<!DOCTYPE html>
<html><body>
<div class="tm-articles-list">
  <article class="tm-articles-list__item">
    <a class="tm-user-info__username" href="/ru/users/alice/">alice</a>
    <time datetime="2024-05-01T10:00:00.000Z">1 May</time>
    <h2><a href="/ru/articles/800001/"><span>First article</span></a></h2>
  </article>
  <article class="tm-articles-list__item">
    <h2><a href="https://habr.com/ru/companies/acme/articles/800002/"><span>Second article</span></a></h2>
  </article>
  <article class="tm-articles-list__item">
    <h2><span>No link here</span></h2>
  </article>
  <article class="tm-articles-list__item">
    <a class="tm-user-info__username" href="/ru/users/bob/">bob</a>
    <h2><a href="/ru/articles/800003/"> Third article </a></h2>
  </article>
</div>
</body></html>`

const habrArticleHTML = `<!DOCTYPE html>
<html><head><title>Page title</title></head><body>
<h1 class="tm-title"><span>Full article title</span></h1>
<a class="tm-user-info__username" href="/ru/users/alice/"> alice </a>
<time datetime="2024-05-01T10:00:00.000Z">1 May</time>
<div id="post-content-body"><div><p>First paragraph.</p><script>var x = 1;</script><p>Second <b>paragraph</b>.</p></div></div>
<div class="tm-separated-list tag-list">
  <a class="link" href="/t/go"><span>Go</span></a>
  <a class="link" href="/t/sql"><span>SQLite</span></a>
  <a class="link" href="/t/empty"><span>  </span></a>
</div>
</body></html>`

const bareArticleHTML = `<!DOCTYPE html>
<html><body>
<div class="something-else"><p>Nothing any selector knows about.</p></div>
</body></html>`

func testProfile() *Profile {
	profile, err := LoadProfile("")
	if err != nil {
		panic(err)
	}
	return profile
}
